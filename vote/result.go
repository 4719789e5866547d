package vote

// Vote tags recognized by the tally. Comparison is exact and case sensitive.
const (
	TagBuild = "build"
	TagBurn  = "burn"
)

type Bucket int

const (
	BucketBuild Bucket = iota
	BucketBurn
	BucketNotVoted
)

func (b Bucket) String() string {
	switch b {
	case BucketBuild:
		return "build"
	case BucketBurn:
		return "burn"
	case BucketNotVoted:
		return "not_voted"
	default:
		return "unknown"
	}
}

// Counter accumulates the number of outputs and the iotas they hold.
type Counter struct {
	Outputs uint64 `json:"outputs"`
	Iotas   uint64 `json:"iotas"`
}

func (c *Counter) add(iotas uint64) {
	c.Outputs++
	c.Iotas += iotas
}

// Breakdown splits the not-voted bucket by reason. The three counters always
// sum to the not-voted totals of the Result.
type Breakdown struct {
	NoSignal        Counter             `json:"no_signal"`
	Malformed       Counter             `json:"malformed"`
	UnrecognizedTag Counter             `json:"unrecognized_tag"`
	Tags            map[string]*Counter `json:"tags,omitempty"`
}

// Result is the outcome of a tally over one snapshot.
type Result struct {
	IotasVotedForBuild  uint64 `json:"iotas_voted_for_build"`
	IotasVotedForBurn   uint64 `json:"iotas_voted_for_burn"`
	IotasNotVoted       uint64 `json:"iotas_not_voted"`
	AmountVotesForBuild uint64 `json:"amount_votes_for_build"`
	AmountVotesForBurn  uint64 `json:"amount_votes_for_burn"`
	AmountNotVoted      uint64 `json:"amount_not_voted"`

	Breakdown Breakdown `json:"not_voted_breakdown"`
	// SkippedGenesisOutputs is the number of outputs without an originating
	// message. They belong to no bucket.
	SkippedGenesisOutputs uint64 `json:"skipped_genesis_outputs"`
}

func newResult() *Result {
	return &Result{Breakdown: Breakdown{Tags: make(map[string]*Counter)}}
}

func (r *Result) iotas(b Bucket) *uint64 {
	switch b {
	case BucketBuild:
		return &r.IotasVotedForBuild
	case BucketBurn:
		return &r.IotasVotedForBurn
	default:
		return &r.IotasNotVoted
	}
}

func (r *Result) amount(b Bucket) *uint64 {
	switch b {
	case BucketBuild:
		return &r.AmountVotesForBuild
	case BucketBurn:
		return &r.AmountVotesForBurn
	default:
		return &r.AmountNotVoted
	}
}
