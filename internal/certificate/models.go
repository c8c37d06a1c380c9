package certificate

import "net/url"

type Certificate struct {
	ID                string `json:"id"`
	CourseID          string `json:"course_id"`
	CourseName        string `json:"course_name"`
	StudentName       string `json:"student_name"`
	InstructorName    string `json:"instructor_name"`
	CompletionDate    string `json:"completion_date"` // "2024-01-15", empty until earned
	IssueDate         string `json:"issue_date"`
	CertificateNumber string `json:"certificate_number"`
	Grade             string `json:"grade"`
	Duration          string `json:"duration"`
	IsAvailable       bool   `json:"is_available"`
}

const verifyBase = "https://learningplatform.com/verify/"

// VerificationURL is the public link printed under an issued certificate.
func VerificationURL(number string) string {
	return verifyBase + url.PathEscape(number)
}

// SampleCertificates is the compiled-in record set, keyed by course id.
func SampleCertificates() map[string]Certificate {
	return map[string]Certificate{
		"1": {
			ID:                "CERT-001",
			CourseID:          "1",
			CourseName:        "تطوير المواقع للمبتدئين",
			StudentName:       "أحمد محمد علي",
			InstructorName:    "د. محمد أحمد",
			CompletionDate:    "2024-01-15",
			IssueDate:         "2024-01-16",
			CertificateNumber: "LP-2024-001-HTML",
			Grade:             "ممتاز",
			Duration:          "12 ساعة",
			IsAvailable:       true,
		},
		"2": {
			ID:                "CERT-002",
			CourseID:          "2",
			CourseName:        "تصميم واجهات المستخدم",
			StudentName:       "أحمد محمد علي",
			InstructorName:    "سارة محمود",
			CompletionDate:    "2024-02-20",
			IssueDate:         "2024-02-21",
			CertificateNumber: "LP-2024-002-UIUX",
			Grade:             "جيد جداً",
			Duration:          "8 ساعات",
			IsAvailable:       true,
		},
		"3": {
			ID:             "CERT-003",
			CourseID:       "3",
			CourseName:     "برمجة التطبيقات المحمولة",
			StudentName:    "أحمد محمد علي",
			InstructorName: "أحمد علي",
			Duration:       "15 ساعة",
			IsAvailable:    false,
		},
	}
}
