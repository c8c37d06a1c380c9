package coursework

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FileHandle is what the file-selection collaborator hands over. Content
// is never read here.
type FileHandle struct {
	Name string `json:"name"`
	Size int64  `json:"size"` // bytes
}

const bytesPerMB = 1024 * 1024

// FileRejectedError is returned when a selected file breaks the size or
// type constraint of its question.
type FileRejectedError struct {
	QuestionID       string
	FileName         string
	MaxFileSizeMB    int
	AllowedFileTypes []string
}

func (e *FileRejectedError) Error() string {
	return fmt.Sprintf("file %q rejected for question %s: max %dMB, allowed types %s",
		e.FileName, e.QuestionID, e.MaxFileSizeMB, strings.Join(e.AllowedFileTypes, ", "))
}

// FileExtension returns the lowercased text after the last '.', with a
// leading dot. A name without a dot yields "." + the whole name.
func FileExtension(name string) string {
	ext := name
	if i := strings.LastIndex(name, "."); i >= 0 {
		ext = name[i+1:]
	}
	return "." + strings.ToLower(ext)
}

// IsFileValid checks f against q's size limit (strictly greater than
// MaxFileSizeMB is too big) and allowed extension list.
func IsFileValid(f FileHandle, q Question) bool {
	if q.MaxFileSizeMB > 0 && f.Size > int64(q.MaxFileSizeMB)*bytesPerMB {
		return false
	}
	if len(q.AllowedFileTypes) > 0 {
		ext := FileExtension(f.Name)
		for _, t := range q.AllowedFileTypes {
			if strings.ToLower(t) == ext {
				return true
			}
		}
		return false
	}
	return true
}

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatFileSize renders bytes as "0 Bytes", "1.5 KB", "12 MB".
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(sizeUnits) {
		i = len(sizeUnits) - 1
	}
	v := float64(bytes) / math.Pow(1024, float64(i))
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64) + " " + sizeUnits[i]
}
