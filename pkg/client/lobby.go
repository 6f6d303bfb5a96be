package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/vctt94/pokertablesync/pkg/protocol"
)

// ErrTableNotFound is returned when the server does not know the table.
var ErrTableNotFound = errors.New("table not found")

const maxTableResponse = 1 << 20

// TableFetcher looks a table up by id.
type TableFetcher interface {
	FetchTable(ctx context.Context, tableID int64) (*protocol.TableInfo, error)
}

// HTTPTableFetcher fetches tables from the REST API at GET {BaseURL}/tables/{id}.
type HTTPTableFetcher struct {
	BaseURL string
	// Token, when set, is sent as a bearer token.
	Token  string
	Client *http.Client
}

func (f *HTTPTableFetcher) FetchTable(ctx context.Context, tableID int64) (*protocol.TableInfo, error) {
	url := strings.TrimRight(f.BaseURL, "/") + "/tables/" + strconv.FormatInt(tableID, 10)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if f.Token != "" {
		req.Header.Set("Authorization", "Bearer "+f.Token)
	}

	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch table %d: %w", tableID, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("fetch table %d: %w", tableID, ErrTableNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("fetch table %d: unexpected status %s", tableID, resp.Status)
	}

	var t protocol.TableInfo
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxTableResponse)).Decode(&t); err != nil {
		return nil, fmt.Errorf("decode table %d: %w", tableID, err)
	}
	return &t, nil
}
