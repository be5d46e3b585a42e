package apierr

import "strings"

const (
	MsgNetwork     = "خطأ في الاتصال بالخادم. يرجى التحقق من اتصال الإنترنت والمحاولة مرة أخرى."
	MsgUnexpected  = "حدث خطأ غير متوقع. يرجى المحاولة مرة أخرى."
	MsgSession     = "انتهت صلاحية جلسة العمل. يرجى تسجيل الدخول مرة أخرى."
	MsgForbidden   = "ليس لديك الصلاحية للقيام بهذا الإجراء."
	MsgNotFound    = "العنصر المطلوب غير موجود."
	MsgConflict    = "تعارض في البيانات. العنصر موجود مسبقاً أو يتعارض مع بيانات أخرى."
	MsgTooLarge    = "حجم الملفات كبير جداً. يرجى اختيار ملفات أصغر حجماً."
	MsgUnsupported = "نوع الملف غير مدعوم. يرجى اختيار ملفات من النوع المسموح."
	MsgRateLimited = "تم تجاوز الحد المسموح من الطلبات. يرجى المحاولة بعد قليل."
	MsgServer      = "خطأ في الخادم. يرجى المحاولة مرة أخرى أو الاتصال بالدعم الفني."
	MsgBadGateway  = "الخادم غير متاح حالياً. يرجى المحاولة مرة أخرى بعد قليل."
	MsgUnavailable = "الخدمة غير متاحة حالياً. يرجى المحاولة مرة أخرى بعد قليل."
	MsgBadInput    = "البيانات المدخلة غير صحيحة. يرجى مراجعة الحقول والمحاولة مرة أخرى."

	MsgBadCredentials = "اسم المستخدم أو كلمة المرور غير صحيحة"
	MsgNoSystemAccess = "لا يوجد لديك صلاحية للوصول إلى هذا النظام"
	MsgLoginNetwork   = "فشل في الاتصال بالخادم. يرجى المحاولة لاحقاً"

	MsgDuplicateLetter    = "يوجد خطاب آخر بنفس الرقم المرجعي وتاريخ الخطاب. يرجى تغيير أحد هذين الحقلين."
	MsgDuplicateReference = "الرقم المرجعي مستخدم من قبل. يرجى استخدام رقم مرجعي مختلف."
	MsgDuplicateEmail     = "عنوان البريد الإلكتروني مستخدم من قبل."
	MsgDuplicateValue     = "القيمة المدخلة مستخدمة من قبل. يرجى استخدام قيمة مختلفة."

	MsgAttachNetwork  = "فشل في رفع المرفقات. يرجى التحقق من اتصال الإنترنت والمحاولة مرة أخرى."
	MsgAttachLetterID = "خطأ في معرف الخطاب. يرجى إعادة تحميل الصفحة والمحاولة مرة أخرى."
	MsgAttachNoFiles  = "لم يتم اختيار أي ملفات للرفع."
	MsgAttachBadInput = "البيانات المرسلة للمرفقات غير صحيحة."
)

// fieldNames are the Arabic labels of letter fields.
var fieldNames = map[string]string{
	"reference_number":      "الرقم المرجعي",
	"correspondence_date":   "تاريخ الخطاب",
	"type":                  "نوع الخطاب",
	"subject":               "الموضوع",
	"contact":               "جهة الاتصال",
	"priority":              "الأولوية",
	"summary":               "الملخص",
	"current_status":        "الحالة",
	"attachments":           "المرفقات",
	"parent_correspondence": "الخطاب السابق",
}

// FieldLabel returns the Arabic label of a field, or the field itself.
func FieldLabel(field string) string {
	if l, ok := fieldNames[field]; ok {
		return l
	}
	return field
}

// Message renders err for the operator. It never returns "".
func Message(err error) string {
	if err == nil {
		return MsgUnexpected
	}
	e, ok := As(err)
	if !ok {
		return MsgUnexpected
	}

	switch e.Kind {
	case KindNetwork:
		return MsgNetwork
	case KindValidation:
		return badRequestMessage(e)
	case KindAuth:
		return MsgSession
	case KindForbidden:
		return MsgForbidden
	case KindNotFound:
		return MsgNotFound
	case KindConflict:
		if e.Detail != "" {
			return uniqueMessage(e.Detail)
		}
		return MsgConflict
	case KindTooLarge:
		return MsgTooLarge
	case KindUnsupported:
		return MsgUnsupported
	case KindRateLimited:
		return MsgRateLimited
	case KindServer:
		switch e.Status {
		case 502:
			return MsgBadGateway
		case 503:
			return MsgUnavailable
		case 500:
			return MsgServer
		}
	}
	return genericMessage(e)
}

// LoginMessage renders a failed sign-in. A 401 here means bad
// credentials rather than an expired session.
func LoginMessage(err error) string {
	e, ok := As(err)
	if !ok {
		return Message(err)
	}
	switch e.Kind {
	case KindAuth:
		return MsgBadCredentials
	case KindForbidden:
		return MsgNoSystemAccess
	case KindNetwork:
		return MsgLoginNetwork
	}
	return Message(err)
}

// AttachmentMessage renders a failed attachment upload. Statuses without
// an upload-specific message fall through to Message.
func AttachmentMessage(err error) string {
	e, ok := As(err)
	if !ok {
		return MsgUnexpected
	}
	switch e.Kind {
	case KindNetwork:
		return MsgAttachNetwork
	case KindTooLarge:
		return MsgTooLarge
	case KindUnsupported:
		return MsgUnsupported
	}
	if e.Status == 400 {
		if e.ErrorText == "" {
			return MsgAttachBadInput
		}
		switch {
		case strings.Contains(e.ErrorText, "correspondence_id"):
			return MsgAttachLetterID
		case strings.Contains(e.ErrorText, "files"):
			return MsgAttachNoFiles
		}
		return e.ErrorText
	}
	return Message(err)
}

// FieldMessages returns "<label>: <translated>" for every field error, in
// server order.
func FieldMessages(e *Error) []string {
	out := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		out = append(out, FieldLabel(f.Field)+": "+Translate(f.Message))
	}
	return out
}

func badRequestMessage(e *Error) string {
	if msgs := FieldMessages(e); len(msgs) > 0 {
		return strings.Join(msgs, "\n")
	}
	if len(e.NonField) > 0 {
		return nonFieldMessage(e.NonField)
	}
	if c := DetectConstraint(e.Detail); c != ConstraintNone {
		return ConstraintMessage(c, e.Detail)
	}
	for _, s := range []string{e.ErrorText, e.MessageText, e.Detail} {
		if s != "" {
			return s
		}
	}
	return MsgBadInput
}

func nonFieldMessage(errs []string) string {
	out := make([]string, 0, len(errs))
	for _, s := range errs {
		switch {
		case strings.Contains(s, "reference_number") && strings.Contains(s, "correspondence_date") && strings.Contains(s, "unique"):
			out = append(out, MsgDuplicateLetter)
		case strings.Contains(s, "unique"):
			out = append(out, uniqueMessage(s))
		default:
			out = append(out, Translate(s))
		}
	}
	return strings.Join(out, "\n")
}

func uniqueMessage(detail string) string {
	switch {
	case strings.Contains(detail, "reference_number"):
		return MsgDuplicateReference
	case strings.Contains(detail, "email"):
		return MsgDuplicateEmail
	default:
		return MsgDuplicateValue
	}
}

func genericMessage(e *Error) string {
	for _, s := range []string{e.Detail, e.ErrorText, e.MessageText} {
		if s != "" {
			return s
		}
	}
	return MsgUnexpected
}
