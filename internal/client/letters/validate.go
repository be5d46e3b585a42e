package letters

import "strings"

// Validation messages.
const (
	MsgReferenceRequired  = "الرقم المرجعى مطلوب"
	MsgDateRequired       = "تاريخ الخطاب مطلوب"
	MsgTypeRequired       = "نوع الخطاب مطلوب"
	MsgSubjectRequired    = "موضوع الخطاب مطلوب"
	MsgContactRequired    = "الجهة المخاطبة مطلوبة"
	MsgAttachmentRequired = "يجب إرفاق ملف واحد على الأقل"
	MsgNoCreatePermission = "ليس لديك صلاحية لإنشاء خطابات جديدة"
)

// ValidationError lists every failed rule, in form order.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, " • ")
}

// Validate checks the form. It returns nil or a *ValidationError.
func (f *Form) Validate() error {
	var msgs []string

	if strings.TrimSpace(f.ReferenceNumber) == "" {
		msgs = append(msgs, MsgReferenceRequired)
	}
	if f.Date == "" {
		msgs = append(msgs, MsgDateRequired)
	}
	if f.Type == 0 {
		msgs = append(msgs, MsgTypeRequired)
	}
	if strings.TrimSpace(f.Subject) == "" {
		msgs = append(msgs, MsgSubjectRequired)
	}
	if f.Contact == 0 {
		msgs = append(msgs, MsgContactRequired)
	}
	if len(f.Attachments) == 0 {
		msgs = append(msgs, MsgAttachmentRequired)
	}

	if len(msgs) > 0 {
		return &ValidationError{Messages: msgs}
	}
	return nil
}
