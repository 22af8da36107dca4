package image

import "fmt"

const downloadPathFormat = "/api/v1/images/%d/download"

type Image struct {
	ID          int64  `json:"imageId"`
	FileName    string `json:"imageName"`
	FileType    string `json:"fileType"`
	Data        []byte `json:"-"`
	DownloadURL string `json:"downloadUrl"`
	ProductID   int64  `json:"productId"`
}

// Upload is one file received from a client.
type Upload struct {
	FileName    string
	ContentType string
	Data        []byte
}

func downloadURL(id int64) string {
	return fmt.Sprintf(downloadPathFormat, id)
}
