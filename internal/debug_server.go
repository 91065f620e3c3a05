package internal

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const maxInspectRows = 500

var inspectTemplate = template.Must(template.New("inspect").Parse(`<!doctype html>
<html>
<head><meta charset="utf-8"><title>direct-chat inspector</title></head>
<body>
<form method="get"><input name="prefix" value="{{.Prefix}}"><button>Inspect</button></form>
<h3>Stats</h3>
<ul>{{range $k, $v := .Stats}}<li>{{$k}}: {{$v}}</li>{{end}}</ul>
<table border="1" cellpadding="4">
<tr><th>Key</th><th>Type</th><th>Owner</th><th>Time</th><th>Entity</th><th>Detail</th></tr>
{{range .Items}}<tr><td>{{.Key}}</td><td>{{.Type}}</td><td>{{.Owner}}</td><td>{{.Timestamp}}</td><td>{{.EntityID}}</td><td>{{.Detail}}</td></tr>{{end}}
</table>
</body>
</html>`))

type InspectRow struct {
	Key       string
	Type      string
	Owner     string
	Timestamp string
	EntityID  string
	Detail    string
}

type StatsProvider func() map[string]any

type PageData struct {
	Prefix string
	Items  []InspectRow
	Stats  map[string]any
}

// DebugServer exposes a read-only view of the badger keyspace.
// It is meant for local troubleshooting and is only started when DEBUG_PORT is set.
type DebugServer struct {
	db    *badger.DB
	stats StatsProvider
	log   *slog.Logger
}

func NewDebugServer(db *badger.DB, stats StatsProvider, log *slog.Logger) *DebugServer {
	return &DebugServer{db: db, stats: stats, log: log}
}

func (s *DebugServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/inspect", s.inspect)
	return mux
}

// Run serves until ctx is cancelled.
func (s *DebugServer) Run(ctx context.Context, port int) error {
	server := &http.Server{
		Addr:              fmt.Sprintf("localhost:%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.log.Info("Debug inspector listening", "url", fmt.Sprintf("http://localhost:%d/inspect?prefix=user:", port))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *DebugServer) inspect(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("prefix")
	if prefix == "" {
		prefix = "user:"
	}

	data := PageData{
		Prefix: prefix,
		Stats:  make(map[string]any),
	}
	if s.stats != nil {
		data.Stats = s.stats()
	}

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
			if len(data.Items) >= maxInspectRows {
				break
			}
			item := it.Item()
			data.Items = append(data.Items, MapKey(string(item.Key()), int(item.ValueSize())))
		}
		return nil
	})
	if err != nil {
		s.log.Error("Inspect failed", "prefix", prefix, "error", err)
		http.Error(w, "inspect failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = inspectTemplate.Execute(w, data)
}

// MapKey explains a storage key:
// user:{id}, email:{email}, conv:{low}:{high}:{ts}:{id}, inbox:{owner}:{ts}:{id}.
func MapKey(key string, size int) InspectRow {
	parts := strings.Split(key, ":")
	row := InspectRow{
		Key:       key,
		Type:      "RAW",
		Owner:     "-",
		Timestamp: "--:--:--",
		EntityID:  "--------",
		Detail:    "Size: " + strconv.Itoa(size) + " bytes",
	}

	switch {
	case parts[0] == "user" && len(parts) == 2:
		row.Type = "USER"
		row.EntityID = parts[1]
	case parts[0] == "email" && len(parts) == 2:
		row.Type = "EMAIL"
		row.Owner = parts[1]
	case parts[0] == "conv" && len(parts) == 5:
		row.Type = "MESSAGE"
		row.Owner = parts[1] + " / " + parts[2]
		row.Timestamp = formatNanos(parts[3])
		row.EntityID = short(parts[4])
	case parts[0] == "inbox" && len(parts) == 4:
		row.Type = "INBOX"
		row.Owner = parts[1]
		row.Timestamp = formatNanos(parts[2])
		row.EntityID = short(parts[3])
	}
	return row
}

func formatNanos(s string) string {
	nanos, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return "--:--:--"
	}
	return time.Unix(0, nanos).UTC().Format("2006-01-02 15:04:05.000")
}

func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
