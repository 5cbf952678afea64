// Package upload drives the third-party storage provider's API: obtain an
// upload server, multipart-upload the file, rename the remote object, fetch
// its public direct link, and later delete it.
package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"transfer-lab/domain"
	"transfer-lab/errors"
)

// statusOK is the provider's success code in every JSON status field.
const statusOK = 200

type negotiateResponse struct {
	Status int    `json:"status"`
	Msg    string `json:"msg"`
	SessID string `json:"sess_id"`
	Result string `json:"result"`
}

type uploadedFile struct {
	FileCode   string `json:"file_code"`
	FileStatus string `json:"file_status"`
}

type renameResponse struct {
	Status int    `json:"status"`
	Msg    string `json:"msg"`
	Result string `json:"result"`
}

type linkResponse struct {
	Status int    `json:"status"`
	Msg    string `json:"msg"`
	Result struct {
		URL string `json:"url"`
	} `json:"result"`
}

type deleteResponse struct {
	Status int    `json:"status"`
	Msg    string `json:"msg"`
}

// Client is the provider protocol client, keyed by an API credential.
// No step is retried here: each is a single atomic round trip that either
// completes or fails, and retry policy belongs to the caller (current
// policy is none, failures surface immediately).
type Client struct {
	log        *slog.Logger
	httpClient *http.Client
	baseURL    string
	key        string
	now        func() time.Time
}

func NewClient(log *slog.Logger, httpClient *http.Client, baseURL, key string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		log:        log,
		httpClient: httpClient,
		baseURL:    baseURL,
		key:        key,
		now:        time.Now,
	}
}

// Upload runs the strictly ordered negotiate → upload → rename → link
// sequence. The sequence is non-resumable: any mid-sequence failure aborts
// the whole upload with no partial CloudAsset created.
func (c *Client) Upload(ctx context.Context, localPath, remoteName string) (*domain.CloudAsset, error) {
	server, sessID, err := c.negotiate(ctx)
	if err != nil {
		return nil, err
	}

	fileCode, err := c.uploadFile(ctx, server, sessID, localPath, remoteName)
	if err != nil {
		return nil, err
	}

	if err := c.rename(ctx, fileCode, remoteName); err != nil {
		return nil, err
	}

	link, err := c.directLink(ctx, fileCode)
	if err != nil {
		return nil, err
	}

	asset := domain.NewCloudAsset(fileCode, remoteName, link, c.now().UTC())
	c.log.Info("cloud upload finished", "file_code", asset.FileCode, "remote_name", asset.RemoteName, "delete_after", asset.DeleteAfter)
	return &asset, nil
}

// Delete removes the remote object. Called once per asset, at fire time.
func (c *Client) Delete(ctx context.Context, fileCode string) error {
	var out deleteResponse
	q := url.Values{"key": {c.key}, "file_code": {fileCode}}
	if err := c.getJSON(ctx, c.baseURL+"/file/delete?"+q.Encode(), &out); err != nil {
		return &errors.StepError{Step: errors.StepDelete, Message: err.Error()}
	}
	if out.Status != statusOK {
		return &errors.StepError{Step: errors.StepDelete, Message: out.Msg}
	}
	return nil
}

func (c *Client) negotiate(ctx context.Context) (server, sessID string, err error) {
	var out negotiateResponse
	q := url.Values{"key": {c.key}}
	if err := c.getJSON(ctx, c.baseURL+"/upload/server?"+q.Encode(), &out); err != nil {
		return "", "", &errors.StepError{Step: errors.StepNegotiate, Message: err.Error()}
	}
	if out.Status != statusOK {
		return "", "", &errors.StepError{Step: errors.StepNegotiate, Message: out.Msg}
	}
	return out.Result, out.SessID, nil
}

func (c *Client) uploadFile(ctx context.Context, server, sessID, localPath, remoteName string) (string, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return "", &errors.StepError{Step: errors.StepUpload, Message: err.Error()}
	}
	defer file.Close()

	contentType := "application/octet-stream"
	if mt, err := mimetype.DetectFile(localPath); err == nil {
		contentType = mt.String()
	}
	if remoteName == "" {
		remoteName = filepath.Base(localPath)
	}

	// The body is streamed through a pipe so multi-gigabyte files never
	// sit in memory.
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		err := func() error {
			if err := mw.WriteField("sess_id", sessID); err != nil {
				return err
			}
			if err := mw.WriteField("utype", "prem"); err != nil {
				return err
			}
			header := textproto.MIMEHeader{}
			header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, remoteName))
			header.Set("Content-Type", contentType)
			part, err := mw.CreatePart(header)
			if err != nil {
				return err
			}
			if _, err := io.Copy(part, file); err != nil {
				return err
			}
			return mw.Close()
		}()
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, server, pr)
	if err != nil {
		return "", &errors.StepError{Step: errors.StepUpload, Message: err.Error()}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &errors.StepError{Step: errors.StepUpload, Message: err.Error()}
	}
	defer resp.Body.Close()

	var out []uploadedFile
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &errors.StepError{Step: errors.StepUpload, Message: "malformed upload response: " + err.Error()}
	}
	if len(out) == 0 {
		return "", &errors.StepError{Step: errors.StepUpload, Message: "empty upload response"}
	}
	if out[0].FileStatus != "OK" {
		return "", &errors.StepError{Step: errors.StepUpload, Message: out[0].FileStatus}
	}
	return out[0].FileCode, nil
}

func (c *Client) rename(ctx context.Context, fileCode, name string) error {
	var out renameResponse
	q := url.Values{"key": {c.key}, "file_code": {fileCode}, "name": {name}}
	if err := c.getJSON(ctx, c.baseURL+"/file/rename?"+q.Encode(), &out); err != nil {
		return &errors.StepError{Step: errors.StepRename, Message: err.Error()}
	}
	if out.Status != statusOK || out.Result != "true" {
		return &errors.StepError{Step: errors.StepRename, Message: out.Msg}
	}
	return nil
}

func (c *Client) directLink(ctx context.Context, fileCode string) (string, error) {
	var out linkResponse
	q := url.Values{"key": {c.key}, "file_code": {fileCode}}
	if err := c.getJSON(ctx, c.baseURL+"/file/direct_link?"+q.Encode(), &out); err != nil {
		return "", &errors.StepError{Step: errors.StepLink, Message: err.Error()}
	}
	if out.Status != statusOK {
		return "", &errors.StepError{Step: errors.StepLink, Message: out.Msg}
	}
	return out.Result.URL, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
