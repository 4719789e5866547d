package config

type Ledger struct {
	Snapshot string `json:"Snapshot"`
	Messages string `json:"Messages"`
	// Store is the leveldb directory messages are indexed into. Empty means
	// the tally reads the message cache file.
	Store string `json:"Store"`
}

func defaultLedger() Ledger {
	return Ledger{
		Snapshot: "full_snapshot.bin",
		Messages: "snapshot_messages.bin",
	}
}
