package domain

import "time"

// RetentionWindow is the fixed lifetime of a cloud asset. Expiry is a
// content-retention policy, not a cache parameter: scheduled deletions
// cannot be cancelled or extended.
const RetentionWindow = 24 * time.Hour

// CloudAsset is a file successfully stored with the third-party provider,
// addressable by its provider-assigned code and public direct link.
type CloudAsset struct {
	FileCode    string    `json:"file_code"`
	RemoteName  string    `json:"remote_name"`
	DirectLink  string    `json:"direct_link"`
	CreatedAt   time.Time `json:"created_at"`
	DeleteAfter time.Time `json:"delete_after"`
}

func NewCloudAsset(fileCode, remoteName, directLink string, createdAt time.Time) CloudAsset {
	return CloudAsset{
		FileCode:    fileCode,
		RemoteName:  remoteName,
		DirectLink:  directLink,
		CreatedAt:   createdAt,
		DeleteAfter: createdAt.Add(RetentionWindow),
	}
}
