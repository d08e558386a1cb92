package storage

import "mime/multipart"

// Uploader 媒体存储接口：接收上传文件和逻辑目录，返回可公开访问的URL
type Uploader interface {
	UploadFile(file *multipart.FileHeader, path string) (string, error)
}
