package yadisk

// Link is the operation descriptor Yandex.Disk returns for resource calls
type Link struct {
	Href      string `json:"href"`
	Method    string `json:"method"`
	Templated bool   `json:"templated"`
}

// User describes the owner of the disk
type User struct {
	UID         string `json:"uid"`
	Login       string `json:"login"`
	DisplayName string `json:"display_name"`
	Country     string `json:"country,omitempty"`
}

// DiskInfo is the response of GET /v1/disk/
type DiskInfo struct {
	TotalSpace    int64 `json:"total_space"`
	UsedSpace     int64 `json:"used_space"`
	TrashSize     int64 `json:"trash_size"`
	MaxFileSize   int64 `json:"max_file_size"`
	IsPaid        bool  `json:"is_paid"`
	RevisionStamp int64 `json:"revision"`
	User          *User `json:"user,omitempty"`
}

// FreeSpace returns the bytes still available
func (d DiskInfo) FreeSpace() int64 {
	free := d.TotalSpace - d.UsedSpace
	if free < 0 {
		return 0
	}
	return free
}

// apiError is the error body of every non-2xx Yandex.Disk response
type apiError struct {
	Error       string `json:"error"`
	Description string `json:"description"`
	Message     string `json:"message"`
}
