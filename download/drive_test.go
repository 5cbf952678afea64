package download

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"transfer-lab/domain"
	"transfer-lab/errors"
)

const driveFileContent = "the actual bytes of the drive file"

func newDriveResolver(t *testing.T, server *httptest.Server) *DriveResolver {
	t.Helper()
	fetcher := NewBackoffFetcher(slog.Default(), server.Client(), 3, time.Millisecond, nil)
	return NewDriveResolver(slog.Default(), fetcher, NewStreamWriter(slog.Default(), 8), server.URL)
}

func TestDriveResolver_Fetch_Direct_Stream(t *testing.T) {
	req := require.New(t)
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("Content-Disposition", `attachment; filename="file.bin"`)
		w.Write([]byte(driveFileContent))
	}))
	defer server.Close()

	job := newTestJob(t, domain.DriveFileID("FILE42"))
	err := newDriveResolver(t, server).Fetch(context.Background(), job)

	req.NoError(err)
	// Then no interstitial round trip happened
	req.Equal(1, requests)

	data, err := os.ReadFile(job.DestinationPath)
	req.NoError(err)
	req.Equal(driveFileContent, string(data))
}

func TestDriveResolver_Fetch_Confirm_Token_From_Body(t *testing.T) {
	req := require.New(t)
	var confirms []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		confirm := r.URL.Query().Get("confirm")
		confirms = append(confirms, confirm)
		if confirm == "" {
			// The virus-scan interstitial, token embedded in a link
			fmt.Fprintf(w, `<html><a href="/uc?export=download&confirm=TOKEN123&id=FILE42">Download anyway</a></html>`)
			return
		}
		w.Header().Set("Content-Disposition", `attachment; filename="file.bin"`)
		w.Write([]byte(driveFileContent))
	}))
	defer server.Close()

	job := newTestJob(t, domain.DriveFileID("FILE42"))
	err := newDriveResolver(t, server).Fetch(context.Background(), job)

	req.NoError(err)
	// Then the scraped token was replayed on the second request
	req.Equal([]string{"", "TOKEN123"}, confirms)

	data, err := os.ReadFile(job.DestinationPath)
	req.NoError(err)
	req.Equal(driveFileContent, string(data))
}

func TestDriveResolver_Fetch_Confirm_Token_From_Cookie(t *testing.T) {
	req := require.New(t)
	var confirms []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		confirm := r.URL.Query().Get("confirm")
		confirms = append(confirms, confirm)
		if confirm == "" {
			http.SetCookie(w, &http.Cookie{Name: "download_warning_13058876_FILE42", Value: "COOKIE456"})
			fmt.Fprint(w, `<html>This file is too large to be scanned for viruses.</html>`)
			return
		}
		w.Write([]byte(driveFileContent))
	}))
	defer server.Close()

	job := newTestJob(t, domain.DriveFileID("FILE42"))
	err := newDriveResolver(t, server).Fetch(context.Background(), job)

	req.NoError(err)
	req.Equal([]string{"", "COOKIE456"}, confirms)

	data, err := os.ReadFile(job.DestinationPath)
	req.NoError(err)
	req.Equal(driveFileContent, string(data))
}

func TestDriveResolver_Fetch_No_Token_Anywhere(t *testing.T) {
	req := require.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>You need access. Ask the owner for permission.</html>`)
	}))
	defer server.Close()

	job := newTestJob(t, domain.DriveFileID("FILE42"))
	err := newDriveResolver(t, server).Fetch(context.Background(), job)

	req.ErrorIs(err, errors.ErrConsentRequired)
}

func TestDriveResolver_Fetch_Rejected_After_Confirm(t *testing.T) {
	req := require.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("confirm") == "" {
			fmt.Fprint(w, `confirm=TOKEN123`)
			return
		}
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer server.Close()

	job := newTestJob(t, domain.DriveFileID("FILE42"))
	err := newDriveResolver(t, server).Fetch(context.Background(), job)

	var statusErr *errors.HTTPStatusError
	req.ErrorAs(err, &statusErr)
	req.Equal(http.StatusForbidden, statusErr.Code)
}
