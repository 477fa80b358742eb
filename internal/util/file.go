package util

import (
	"io"
	"net/http"
	"strings"
)

// 课程附件允许的MIME类型（前缀或完整类型）
var allowedContentMimes = []string{
	"image/",
	"video/",
	"audio/",
	"text/",
	"application/pdf",
	"application/zip",
	"application/msword",
	"application/vnd.openxmlformats-officedocument",
	"application/octet-stream",
}

// SniffMimeType 读取头512字节嗅探真实MIME类型，读完回退到文件开头
func SniffMimeType(file io.ReadSeeker) (string, error) {
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(buffer[:n]), nil
}

// AllowedContentMime 扩展名可伪造，附件类型按嗅探结果过滤
func AllowedContentMime(mimeType string) bool {
	for _, allowed := range allowedContentMimes {
		if strings.HasPrefix(mimeType, allowed) {
			return true
		}
	}
	return false
}
