package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/gaurav-aionos/AI-powered-business-analyser/internal/rowset"
	"github.com/gaurav-aionos/AI-powered-business-analyser/internal/storage"
)

// Row-sets have query-dependent columns, so each record is exported as a
// JSON document alongside its ordinal.
type parquetRecord struct {
	RowIndex   int64  `parquet:"row_index"`
	RecordJSON string `parquet:"record_json"`
}

// Exporter writes tabular query results as parquet artifacts to the object
// store, keyed by day and trace id.
type Exporter struct {
	Store  storage.ObjectStore
	Prefix string
	Logger *slog.Logger
	Now    func() time.Time
}

// Export encodes and uploads the row-set, returning the object key. Empty
// row-sets are skipped.
func (e *Exporter) Export(ctx context.Context, traceID string, rs rowset.RowSet) (string, error) {
	if e.Store == nil {
		return "", fmt.Errorf("object store is not configured")
	}
	if rs.Len() == 0 {
		return "", fmt.Errorf("nothing to export: row-set is empty")
	}

	data, err := encodeParquet(rs)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	if e.Now != nil {
		now = e.Now().UTC()
	}
	key := path.Join(e.Prefix, now.Format("2006-01-02"), traceID+".parquet")

	info, err := e.Store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), storage.PutOptions{
		ContentType: "application/vnd.apache.parquet",
	})
	if err != nil {
		return "", fmt.Errorf("upload export: %w", err)
	}

	if e.Logger != nil {
		e.Logger.InfoContext(ctx, "result set exported",
			slog.String("key", info.Key),
			slog.Int64("bytes", info.Size),
			slog.Int("records", rs.Len()),
		)
	}
	return key, nil
}

func encodeParquet(rs rowset.RowSet) ([]byte, error) {
	rows := make([]parquetRecord, 0, rs.Len())
	for i, record := range rs.Records {
		encoded, err := json.Marshal(record)
		if err != nil {
			return nil, fmt.Errorf("encode record %d: %w", i, err)
		}
		rows = append(rows, parquetRecord{RowIndex: int64(i), RecordJSON: string(encoded)})
	}

	buf := bytes.NewBuffer(nil)
	writer := parquet.NewGenericWriter[parquetRecord](buf)
	if _, err := writer.Write(rows); err != nil {
		return nil, fmt.Errorf("write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close parquet writer: %w", err)
	}
	return buf.Bytes(), nil
}
