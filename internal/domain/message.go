package domain

// MessageKind is the classification of an inbound chat message.
type MessageKind string

const (
	KindIgnore         MessageKind = "ignore"
	KindStockSnapshot  MessageKind = "stock_snapshot"
	KindStockIncrement MessageKind = "stock_increment"
	KindSale           MessageKind = "sale"
)

// InboundMessage is what the transport layer hands to the pipeline: raw text,
// the reporting person, the acting network (already resolved upstream) and a
// unique source identifier used for deduplication of redeliveries.
type InboundMessage struct {
	SourceMessageID string `json:"source_message_id"`
	Person          string `json:"person"`
	Network         string `json:"network"`
	ChatID          int64  `json:"chat_id"`
	Text            string `json:"text"`
}

// IngestResult summarizes what the pipeline did with one message.
type IngestResult struct {
	Kind              MessageKind `json:"kind"`
	Duplicate         bool        `json:"duplicate"`
	SalesRecorded     int         `json:"sales_recorded"`
	ShipmentsRecorded int         `json:"shipments_recorded"`
	SnapshotRows      int         `json:"snapshot_rows"`
	Prompted          bool        `json:"prompted"`
}

// ParsedLine is one extracted sale/increment/snapshot row before product
// resolution. MemoryGB is 0 when the line carries no capacity token; the
// extractor reports that separately so "unknown" is not confused with an
// explicit zero.
type ParsedLine struct {
	Fragment  string
	Qty       int
	MemoryGB  int
	HasMemory bool
}
