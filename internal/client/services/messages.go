package services

// User-facing confirmations and refusals.
const (
	MsgLetterSaved        = "تم حفظ الخطاب الروسي بنجاح!"
	MsgLetterUpdated      = "تم تحديث الخطاب بنجاح"
	MsgLetterDeleted      = "تم حذف الخطاب بنجاح"
	MsgNoEditPermission   = "ليس لديك صلاحية لتعديل الخطابات"
	MsgNoDeletePermission = "ليس لديك صلاحية لحذف الخطابات"
	MsgUploadFailedFmt    = "فشل في رفع المرفقات: %s. تم إلغاء العملية."
	MsgUpdateFailed       = "فشل في تحديث البيانات. يرجى المحاولة مرة أخرى."

	MsgTypeCreated       = "تم إضافة نوع الخطاب بنجاح"
	MsgTypeUpdated       = "تم تحديث نوع الخطاب بنجاح"
	MsgTypeDeleted       = "تم حذف نوع الخطاب بنجاح"
	MsgTypeDeleteConfirm = "هل أنت متأكد من حذف هذا النوع؟ سيتم حذف جميع الإجراءات المرتبطة به."
	MsgSelectTypeFirst   = "يرجى اختيار نوع الخطاب أولاً"
	MsgProcedureCreated  = "تم إضافة الإجراء بنجاح"
	MsgProcedureUpdated  = "تم تحديث الإجراء بنجاح"
	MsgProcedureDeleted  = "تم حذف الإجراء بنجاح"
	MsgReorderDone       = "تم تحديث ترتيب الإجراءات بنجاح"
	MsgReorderFailed     = "خطأ في تحديث ترتيب الإجراءات"
	MsgReorderBadMove    = "خطأ في العثور على الإجراءات المحددة"
	MsgManyInitial       = "يوجد أكثر من إجراء ابتدائي لهذا النوع"
	MsgManyFinal         = "يوجد أكثر من إجراء نهائي لهذا النوع"

	MsgRecordSaved   = "تم حفظ السجل بنجاح"
	MsgRecordDeleted = "تم حذف السجل بنجاح"
)
