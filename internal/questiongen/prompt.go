package questiongen

import (
	"fmt"
	"strings"
)

const systemPrompt = `Bạn là giáo viên Tin học THPT, soạn câu hỏi kiểm tra bám sát sách giáo khoa.

Quy tắc:
- Viết bằng tiếng Việt, rõ ràng, đúng thuật ngữ của bài học.
- Mỗi câu hỏi có đúng một đáp án đúng; đáp án phải chép nguyên văn từ danh sách lựa chọn.
- Các phương án sai phải hợp lý, phản ánh những hiểu nhầm thường gặp.
- Lời giải thích ngắn gọn, chỉ ra vì sao đáp án đúng.
- Không lặp lại câu hỏi trong cùng một bài kiểm tra.`

// buildUserMessage asks for exactly count questions, of which tf are
// true/false with the fixed label pair.
func buildUserMessage(lesson string, count, tf int, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Tạo một bài kiểm tra gồm chính xác %d câu hỏi cho học sinh lớp %d về bài học: %q.\n", count, cfg.Grade, lesson)
	if tf > 0 {
		fmt.Fprintf(&b, "Trong đó, hãy bao gồm chính xác %d câu hỏi dạng %s/%s. Các câu hỏi %s/%s phải có các lựa chọn là [%q, %q].\n",
			tf, cfg.TrueLabel, cfg.FalseLabel, cfg.TrueLabel, cfg.FalseLabel, cfg.TrueLabel, cfg.FalseLabel)
	}
	if count > tf {
		b.WriteString("Các câu hỏi còn lại phải là câu hỏi trắc nghiệm có 4 lựa chọn.\n")
	}
	b.WriteString("Mỗi câu hỏi phải có một đáp án đúng duy nhất và một lời giải thích ngắn gọn, rõ ràng cho đáp án đúng đó.\n")
	b.WriteString("Các câu hỏi cần thú vị, có độ khó đa dạng và bám sát nội dung của bài học.\n")
	b.WriteString("Trả về kết quả ở định dạng JSON.")

	return b.String()
}
