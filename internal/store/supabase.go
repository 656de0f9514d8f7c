package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
)

// SupabaseStore writes records through the Supabase PostgREST endpoint
type SupabaseStore struct {
	client *resty.Client
	table  string
}

// NewSupabaseStore creates a store for the given project URL and API key
func NewSupabaseStore(url, key, table string) (*SupabaseStore, error) {
	if url == "" {
		return nil, fmt.Errorf("Supabase URL is required")
	}
	if key == "" {
		return nil, fmt.Errorf("Supabase key is required")
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(url, "/")+"/rest/v1").
		SetHeader("apikey", key).
		SetAuthToken(key).
		SetHeader("Content-Type", "application/json")

	return &SupabaseStore{client: client, table: table}, nil
}

// Insert posts one row to the table
func (s *SupabaseStore) Insert(ctx context.Context, record *Record) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=minimal").
		SetBody(record).
		Post("/" + s.table)
	if err != nil {
		return fmt.Errorf("supabase insert: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("supabase insert: %s; body: %s", resp.Status(), resp.String())
	}
	return nil
}

// List fetches the newest rows
func (s *SupabaseStore) List(ctx context.Context, limit int) ([]Record, error) {
	var records []Record
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"select": "*",
			"order":  "timestamp.desc",
			"limit":  strconv.Itoa(listLimit(limit)),
		}).
		SetResult(&records).
		Get("/" + s.table)
	if err != nil {
		return nil, fmt.Errorf("supabase list: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("supabase list: %s; body: %s", resp.Status(), resp.String())
	}
	return records, nil
}

// Exists checks for a row with the given original filename
func (s *SupabaseStore) Exists(ctx context.Context, filename string) (bool, error) {
	var rows []struct {
		OriginalFilename string `json:"original_filename"`
	}
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"select":            "original_filename",
			"original_filename": "eq." + filename,
			"limit":             "1",
		}).
		SetResult(&rows).
		Get("/" + s.table)
	if err != nil {
		return false, fmt.Errorf("supabase lookup: %w", err)
	}
	if resp.IsError() {
		return false, fmt.Errorf("supabase lookup: %s; body: %s", resp.Status(), resp.String())
	}
	return len(rows) > 0, nil
}

// Close is a no-op; the HTTP client holds no dedicated connection
func (s *SupabaseStore) Close() error {
	return nil
}
