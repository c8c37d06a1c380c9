package i18n

var arabic = map[string]string{
	// validation
	"This question is required":         "هذا السؤال مطلوب",
	"Please write an answer":            "يرجى كتابة إجابة",
	"Please upload a file":              "يرجى رفع ملف",
	"Please select at least one answer": "يرجى اختيار إجابة واحدة على الأقل",

	// notices
	"Assignments submitted successfully!":                   "تم إرسال الواجبات بنجاح!",
	"An error occurred while submitting. Please try again.": "حدث خطأ أثناء إرسال الواجبات. يرجى المحاولة مرة أخرى.",
	"Invalid file. Max size: %dMB, allowed types: %s":       "الملف غير صالح. الحد الأقصى: %dMB، الأنواع المسموحة: %s",
	"A submission is already in progress":                   "يوجد إرسال قيد التنفيذ بالفعل",
	"Please complete the highlighted questions":             "يرجى إكمال الأسئلة المحددة",
	"All answers cleared":                                   "تم مسح جميع الإجابات",
	"The certificate will be available as PDF soon":         "سيتم تحميل الشهادة بصيغة PDF قريباً",
	"Please wait before sending again":                      "يرجى الانتظار قبل الإرسال مرة أخرى",
	"Could not send the email":                              "تعذر إرسال البريد الإلكتروني",
	"Could not save your answer":                            "تعذر حفظ إجابتك",

	// assignments page
	"Course assignments":                          "واجبات الدورة",
	"Back to course":                              "العودة للدورة",
	"Overall progress":                            "التقدم العام",
	"%d of %d questions":                          "%d من %d أسئلة",
	"%d%% complete":                               "%d%% مكتمل",
	"%d questions remaining":                      "%d أسئلة متبقية",
	"Assignment %d: %s":                           "الواجب %d: %s",
	"Due date: %s":                                "تاريخ التسليم: %s",
	"%d questions":                                "%d أسئلة",
	"Text question":                               "سؤال نصي",
	"File upload":                                 "رفع ملف",
	"Multiple choice":                             "اختيار متعدد",
	"Optional":                                    "اختياري",
	"Write your answer here...":                   "اكتب إجابتك هنا...",
	"Save answer":                                 "حفظ الإجابة",
	"Remove file":                                 "إزالة الملف",
	"Choose file":                                 "اختيار ملف",
	"Upload":                                      "رفع",
	"Max size: %dMB":                              "الحد الأقصى: %dMB",
	"Allowed types: %s":                           "الأنواع المسموحة: %s",
	"Submit all assignments":                      "إرسال جميع الواجبات",
	"Submitting...":                               "جاري الإرسال...",
	"Clear answers":                               "مسح الإجابات",
	"Are you sure you want to clear all answers?": "هل أنت متأكد من أنك تريد مسح جميع الإجابات؟",
	"Yes, clear":                                  "نعم، امسح",
	"Cancel":                                      "إلغاء",

	"Complete all required assignments to finish the course and earn the certificate": "أكمل جميع الواجبات المطلوبة لإنهاء الدورة والحصول على الشهادة",
	"Review all your answers before submitting. You will not be able to edit them after submission.": "تأكد من مراجعة جميع إجاباتك قبل الإرسال. لن تتمكن من تعديل الإجابات بعد الإرسال.",

	// certificate page
	"Course certificate":                    "شهادة الدورة",
	"Loading certificate...":                "جاري تحميل الشهادة...",
	"Certificate not found":                 "الشهادة غير موجودة",
	"Back to dashboard":                     "العودة للوحة التحكم",
	"Certificate not available yet":         "الشهادة غير متاحة بعد",
	"Continue course":                       "متابعة الدورة",
	"Course duration: %s":                   "مدة الدورة: %s",
	"Print":                                 "طباعة",
	"Download PDF":                          "تحميل PDF",
	"Send by email":                         "إرسال بالبريد",
	"Sent":                                  "تم الإرسال",
	"Certificate of Completion":             "شهادة إتمام",
	"This certifies that":                   "نشهد بأن",
	"has successfully completed the course": "قد أتم بنجاح دورة",
	"Instructor: %s":                        "المدرب: %s",
	"Duration: %s":                          "المدة: %s",
	"Completion date":                       "تاريخ الإكمال",
	"Issue date":                            "تاريخ الإصدار",
	"Certificate number":                    "رقم الشهادة",
	"Grade":                                 "التقدير",
	"Verify this certificate at:":           "يمكن التحقق من صحة هذه الشهادة عبر الرابط التالي:",
	"Requirements met":                      "متطلبات الحصول على الشهادة",
	"All lessons and units completed":       "إكمال جميع الدروس والوحدات",
	"All tests and assignments passed":      "اجتياز جميع الاختبارات والواجبات",
	"Achieved grade %s":                     "الحصول على تقدير %s",
	"Certificate features":                  "مميزات الشهادة",
	"Certified by the learning platform":    "شهادة معتمدة من منصة التعلم",
	"Valid for life":                        "صالحة مدى الحياة",
	"Electronically verifiable":             "قابلة للتحقق إلكترونياً",
	"Recognized in the industry":            "معترف بها في الصناعة",
	"Share your achievement":                "شارك إنجازك",

	"You have not completed this course yet. Complete all lessons and assignments to earn the certificate.": "لم تكمل هذه الدورة بعد. يجب إكمال جميع الدروس والواجبات للحصول على الشهادة.",

	// navigation
	"Dashboard":      "لوحة التحكم",
	"Course preview": "معاينة الدورة",
}
