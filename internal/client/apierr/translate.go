package apierr

import "strings"

type translation struct {
	en, ar string
}

// translations is searched in order: exact match over the whole table
// first, then the first entry contained in the message.
var translations = []translation{
	{"This field is required.", "هذا الحقل مطلوب."},
	{"This field may not be blank.", "هذا الحقل لا يمكن أن يكون فارغاً."},
	{"This field may not be null.", "هذا الحقل مطلوب."},
	{"Enter a valid email address.", "يرجى إدخال عنوان بريد إلكتروني صحيح."},
	{"Enter a valid URL.", "يرجى إدخال رابط صحيح."},
	{"Enter a valid date.", "يرجى إدخال تاريخ صحيح."},
	{"Enter a valid time.", "يرجى إدخال وقت صحيح."},
	{"Enter a valid number.", "يرجى إدخال رقم صحيح."},
	{"Enter a valid integer.", "يرجى إدخال رقم صحيح."},
	{"Enter a valid decimal number.", "يرجى إدخال رقم عشري صحيح."},

	{"Ensure this value is greater than or equal to", "يجب أن تكون القيمة أكبر من أو تساوي"},
	{"Ensure this value is less than or equal to", "يجب أن تكون القيمة أقل من أو تساوي"},
	{"Ensure this field has no more than", "يجب ألا يتجاوز هذا الحقل"},
	{"Ensure this field has at least", "يجب أن يحتوي هذا الحقل على الأقل على"},
	{"Ensure this value has at most", "يجب ألا تتجاوز القيمة"},
	{"Ensure this value has at least", "يجب أن تحتوي القيمة على الأقل على"},
	{"characters", "حرف"},
	{"character", "حرف"},

	{"Invalid choice.", "اختيار غير صحيح."},
	{"Not a valid choice.", "اختيار غير صحيح."},
	{"Select a valid choice.", "يرجى اختيار خيار صحيح."},

	{"This field must be unique.", "هذا الحقل يجب أن يكون فريداً."},
	{"already exists", "موجود مسبقاً"},
	{"must be unique", "يجب أن يكون فريداً"},
	{"The fields reference_number, correspondence_date must make a unique set.", MsgDuplicateLetter},

	{"Authentication credentials were not provided.", "لم يتم توفير بيانات المصادقة."},
	{"Invalid token.", "رمز المصادقة غير صحيح."},
	{"Token has expired.", "انتهت صلاحية رمز المصادقة."},
	{"Permission denied.", MsgForbidden},
	{"You do not have permission to perform this action.", MsgForbidden},

	{"Not found.", MsgNotFound},
	{"Method not allowed.", "العملية غير مسموحة."},
	{"Unsupported media type.", "نوع الملف غير مدعوم."},
	{"Request was throttled.", "تم تجاوز الحد المسموح من الطلبات."},
	{"Bad request.", "طلب غير صحيح."},
	{"Internal server error.", "خطأ في الخادم."},

	{"UNIQUE constraint failed", "فشل في قيد الفرادة"},
	{"NOT NULL constraint failed", "فشل في قيد عدم الفراغ"},
	{"FOREIGN KEY constraint failed", "فشل في قيد المفتاح الأجنبي"},
	{"CHECK constraint failed", "فشل في قيد التحقق"},
	{"cannot be deleted because it is referenced", "لا يمكن حذفه لأنه مرجع إليه"},
	{"violates foreign key constraint", "ينتهك قيد المفتاح الأجنبي"},
	{"violates unique constraint", "ينتهك قيد الفرادة"},
	{"violates not-null constraint", "ينتهك قيد عدم الفراغ"},
	{"violates check constraint", "ينتهك قيد التحقق"},

	{"The submitted file is empty.", "الملف المرسل فارغ."},
	{"No file was submitted.", "لم يتم إرسال أي ملف."},
	{"The submitted data was not a file.", "البيانات المرسلة ليست ملفاً."},
	{"File too large.", "الملف كبير جداً."},
	{"Invalid file type.", "نوع الملف غير صحيح."},

	{"Date has wrong format.", "تنسيق التاريخ غير صحيح."},
	{"Time has wrong format.", "تنسيق الوقت غير صحيح."},
	{"Datetime has wrong format.", "تنسيق التاريخ والوقت غير صحيح."},
	{"Expected a date but got a datetime.", "متوقع تاريخ لكن تم الحصول على تاريخ ووقت."},
	{"Expected a datetime but got a date.", "متوقع تاريخ ووقت لكن تم الحصول على تاريخ فقط."},

	{"JSON parse error", "خطأ في تحليل JSON"},
	{"Invalid JSON.", "JSON غير صحيح."},
	{"Malformed JSON.", "JSON مشوه."},
	{"Expected a dictionary but got", "متوقع قاموس لكن تم الحصول على"},
	{"Expected a list but got", "متوقعة قائمة لكن تم الحصول على"},

	{"Instance with this", "مثيل بهذا"},
	{"does not exist", "غير موجود"},
	{"is not a valid", "ليس صحيحاً"},
	{"Invalid pk", "مفتاح أساسي غير صحيح"},
	{"Incorrect type", "نوع غير صحيح"},
}

var exact = func() map[string]string {
	m := make(map[string]string, len(translations))
	for _, t := range translations {
		if _, dup := m[t.en]; !dup {
			m[t.en] = t.ar
		}
	}
	return m
}()

// Translate maps a server validation message to Arabic. Unknown messages
// come back unchanged.
func Translate(msg string) string {
	if ar, ok := exact[msg]; ok {
		return ar
	}
	for _, t := range translations {
		if strings.Contains(msg, t.en) {
			return strings.Replace(msg, t.en, t.ar, 1)
		}
	}
	return msg
}

// ConstraintKind names the database constraint family a message is about.
type ConstraintKind int

const (
	ConstraintNone ConstraintKind = iota
	ConstraintUnique
	ConstraintNotNull
	ConstraintForeignKey
	ConstraintCheck
	ConstraintRestrict
)

// ConstraintMessage renders a database constraint failure that leaked
// through "detail". ConstraintNone gives "".
func ConstraintMessage(kind ConstraintKind, detail string) string {
	has := func(subs ...string) bool {
		for _, s := range subs {
			if strings.Contains(detail, s) {
				return true
			}
		}
		return false
	}

	switch kind {
	case ConstraintUnique:
		return uniqueMessage(detail)
	case ConstraintNotNull:
		switch {
		case has("reference_number"):
			return "الرقم المرجعي مطلوب ولا يمكن أن يكون فارغاً."
		case has("correspondence_date"):
			return "تاريخ الخطاب مطلوب ولا يمكن أن يكون فارغاً."
		case has("subject"):
			return "موضوع الخطاب مطلوب ولا يمكن أن يكون فارغاً."
		case has("contact"):
			return "الاتصال مطلوب ولا يمكن أن يكون فارغاً."
		}
		return "هذا الحقل مطلوب ولا يمكن أن يكون فارغاً."
	case ConstraintForeignKey:
		switch {
		case has("contact", "Contact"):
			return "الاتصال المحدد غير موجود. يرجى اختيار اتصال صحيح."
		case has("user", "User"):
			return "المستخدم المحدد غير موجود."
		case has("type", "Type"):
			return "نوع الخطاب المحدد غير موجود. يرجى اختيار نوع صحيح."
		case has("procedure", "Procedure"):
			return "الإجراء المحدد غير موجود. يرجى اختيار إجراء صحيح."
		}
		return "العنصر المرجعي غير موجود. يرجى التحقق من البيانات المدخلة."
	case ConstraintCheck:
		switch {
		case has("priority"):
			return "قيمة الأولوية غير صحيحة. يرجى اختيار أولوية صحيحة."
		case has("direction"):
			return "اتجاه الخطاب غير صحيح. يرجى اختيار اتجاه صحيح."
		case has("status"):
			return "حالة الخطاب غير صحيحة. يرجى اختيار حالة صحيحة."
		}
		return "القيمة المدخلة لا تتوافق مع القيود المحددة. يرجى التحقق من البيانات."
	case ConstraintRestrict:
		switch {
		case has("User", "user"):
			return "لا يمكن حذف هذا المستخدم لأنه مرتبط ببيانات أخرى في النظام."
		case has("Contact", "contact"):
			return "لا يمكن حذف هذا الاتصال لأنه مرتبط بخطابات أو بيانات أخرى."
		case has("CorrespondenceType", "correspondence_type"):
			return "لا يمكن حذف نوع الخطاب لأنه مستخدم في خطابات موجودة."
		case has("Procedure", "procedure"):
			return "لا يمكن حذف هذا الإجراء لأنه مرتبط بخطابات أو بيانات أخرى."
		}
		return "لا يمكن حذف هذا العنصر لأنه مرتبط ببيانات أخرى في النظام. يرجى حذف البيانات المرتبطة أولاً."
	}
	return ""
}

// DetectConstraint guesses which constraint family detail talks about.
func DetectConstraint(detail string) ConstraintKind {
	d := strings.ToLower(detail)
	switch {
	case strings.Contains(d, "unique"):
		return ConstraintUnique
	case strings.Contains(d, "not null"), strings.Contains(d, "not-null"):
		return ConstraintNotNull
	case strings.Contains(d, "restrict"), strings.Contains(d, "referenced"):
		return ConstraintRestrict
	case strings.Contains(d, "foreign key"):
		return ConstraintForeignKey
	case strings.Contains(d, "check constraint"):
		return ConstraintCheck
	default:
		return ConstraintNone
	}
}
