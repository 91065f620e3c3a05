package main

import (
	"direct-chat/domain"
	"direct-chat/internal"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/olekukonko/tablewriter"
)

func main() {
	dbPath := flag.String("db", "./data/badger", "Path to badger DB")
	prefix := flag.String("prefix", "user:", "Prefix to scan (user:, email:, conv:, inbox:)")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Type", "Owner", "Timestamp", "Entity ID", "Detail"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			key := string(item.Key())

			err := item.Value(func(v []byte) error {
				row := internal.MapKey(key, len(v))
				row.Detail = describe(row.Type, v, row.Detail)
				table.Append([]string{row.Key, row.Type, row.Owner, row.Timestamp, row.EntityID, row.Detail})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}

// describe decodes the stored value into a one-line summary, falling back to its size.
func describe(kind string, value []byte, fallback string) string {
	switch kind {
	case "USER":
		var u domain.User
		if err := json.Unmarshal(value, &u); err != nil {
			return fallback
		}
		return fmt.Sprintf("%s <%s> friends=%d pending=%d", u.FullName, u.Email, len(u.Friends), len(u.FriendRequests))
	case "MESSAGE":
		var m domain.Message
		if err := json.Unmarshal(value, &m); err != nil {
			return fallback
		}
		text := m.Text
		if len(text) > 40 {
			text = text[:40] + "..."
		}
		if m.Image != "" {
			text = strings.TrimSpace(text + " [image]")
		}
		return fmt.Sprintf("%s -> %s: %s", m.SenderID, m.ReceiverID, text)
	case "EMAIL", "INBOX":
		return string(value)
	default:
		return fallback
	}
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true)
	return badger.Open(opts)
}
