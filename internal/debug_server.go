package internal

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"transfer-lab/domain"
)

//go:embed inspect.html
var templatesFS embed.FS

// InspectRow is one rendered line of the pending-deletion queue.
type InspectRow struct {
	Key         string
	FileCode    string
	RemoteName  string
	CreatedAt   string
	DeleteAfter string
	DirectLink  string
	Detail      string
}

type RowMapper func(key string, val []byte) InspectRow
type StatsProvider func() map[string]any

type PageData struct {
	Prefix string
	Items  []InspectRow
	Stats  map[string]any
}

// StartDebugServer exposes the badger queue on /inspect for operators.
// Read-only; it never mutates the store.
func StartDebugServer(db *badger.DB, port int, endpoint string, mapper RowMapper, statsProvider StatsProvider) {
	mux := http.NewServeMux()
	tmpl := template.Must(template.ParseFS(templatesFS, "inspect.html"))

	if mapper == nil {
		mapper = DeletionMapper
	}

	mux.HandleFunc(endpoint, func(w http.ResponseWriter, r *http.Request) {
		prefix := r.URL.Query().Get("prefix")
		if prefix == "" {
			prefix = "del:pending:"
		}

		data := PageData{
			Prefix: prefix,
			Stats:  make(map[string]any),
		}
		if statsProvider != nil {
			data.Stats = statsProvider()
		}

		_ = db.View(func(txn *badger.Txn) error {
			it := txn.NewIterator(badger.DefaultIteratorOptions)
			defer it.Close()
			for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
				item := it.Item()
				_ = item.Value(func(val []byte) error {
					data.Items = append(data.Items, mapper(string(item.Key()), val))
					return nil
				})
			}
			return nil
		})

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = tmpl.Execute(w, data)
	})

	go func() {
		_ = http.ListenAndServe(fmt.Sprintf("0.0.0.0:%d", port), mux)
	}()
}

// DeletionMapper renders one scheduled-deletion record. Unreadable values
// degrade to a raw row instead of breaking the page.
func DeletionMapper(key string, val []byte) InspectRow {
	row := InspectRow{
		Key:         key,
		FileCode:    "--------",
		DeleteAfter: "--:--:--",
		Detail:      "Size: " + strconv.Itoa(len(val)) + " bytes",
	}

	parts := strings.Split(key, ":")
	if len(parts) >= 4 {
		if tsNano, err := strconv.ParseInt(parts[2], 10, 64); err == nil {
			row.DeleteAfter = time.Unix(0, tsNano).Format(time.RFC3339)
		}
		row.FileCode = parts[3]
	}

	var asset domain.CloudAsset
	if err := json.Unmarshal(val, &asset); err != nil {
		return row
	}
	row.RemoteName = asset.RemoteName
	row.CreatedAt = asset.CreatedAt.Format(time.RFC3339)
	row.DirectLink = asset.DirectLink
	return row
}
