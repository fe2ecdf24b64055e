package supabase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
)

// Query builds one PostgREST request. Builders return the receiver so
// filters chain; a Query is used for a single call and then discarded.
type Query struct {
	client *Client
	table  string
	params url.Values
}

func newQuery(client *Client, table string) *Query {
	return &Query{
		client: client,
		table:  table,
		params: url.Values{},
	}
}

// Select names the columns to return (PostgREST "select" parameter).
func (q *Query) Select(columns string) *Query {
	q.params.Set("select", columns)
	return q
}

// Eq filters rows where column equals value.
func (q *Query) Eq(column, value string) *Query {
	q.params.Add(column, "eq."+value)
	return q
}

// Gt filters rows where column is strictly greater than value.
func (q *Query) Gt(column string, value int64) *Query {
	q.params.Add(column, "gt."+strconv.FormatInt(value, 10))
	return q
}

// Order sorts by column; ascending unless desc is set.
func (q *Query) Order(column string, desc bool) *Query {
	direction := ".asc"
	if desc {
		direction = ".desc"
	}
	q.params.Add("order", column+direction)
	return q
}

// Limit caps the number of returned rows.
func (q *Query) Limit(n int) *Query {
	q.params.Set("limit", strconv.Itoa(n))
	return q
}

// Get executes the query and decodes the row set into out.
func (q *Query) Get(ctx context.Context, out any) error {
	return q.do(ctx, http.MethodGet, nil, nil, out)
}

// Single executes the query expecting exactly one row. PostgREST
// enforces the cardinality server side via the Accept header.
func (q *Query) Single(ctx context.Context, out any) error {
	header := http.Header{}
	header.Set("Accept", "application/vnd.pgrst.object+json")
	return q.do(ctx, http.MethodGet, nil, header, out)
}

// Maybe executes the query expecting zero or one row. It reports
// whether a row was found; absence is not an error.
func (q *Query) Maybe(ctx context.Context, out any) (bool, error) {
	q.Limit(1)
	var rows []json.RawMessage
	if err := q.do(ctx, http.MethodGet, nil, nil, &rows); err != nil {
		return false, err
	}
	if len(rows) == 0 {
		return false, nil
	}
	if out != nil {
		if err := json.Unmarshal(rows[0], out); err != nil {
			return false, err
		}
	}
	return true, nil
}

// Insert creates rows from payload. The inserted representation is
// decoded into out when out is non-nil.
func (q *Query) Insert(ctx context.Context, payload any, out any) error {
	return q.do(ctx, http.MethodPost, payload, returnRepresentation(), out)
}

// Update patches the filtered rows. The updated representation is
// decoded into out when out is non-nil.
func (q *Query) Update(ctx context.Context, payload any, out any) error {
	return q.do(ctx, http.MethodPatch, payload, returnRepresentation(), out)
}

// Delete removes the filtered rows.
func (q *Query) Delete(ctx context.Context) error {
	return q.do(ctx, http.MethodDelete, nil, nil, nil)
}

func (q *Query) do(ctx context.Context, method string, payload any, header http.Header, out any) error {
	return q.client.do(ctx, method, restPath+"/"+q.table, q.params.Encode(), payload, header, out)
}

func returnRepresentation() http.Header {
	header := http.Header{}
	header.Set("Prefer", "return=representation")
	return header
}
