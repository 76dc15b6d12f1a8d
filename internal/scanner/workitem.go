package scanner

// Kind identifies which probe a WorkItem runs.
type Kind int

const (
	KindURI Kind = iota
	KindDNS
	KindVHost
	KindDirectory
)

// Kinds lists every probe kind in the order they run for each entry.
var Kinds = []Kind{KindURI, KindDNS, KindVHost, KindDirectory}

func (k Kind) String() string {
	switch k {
	case KindURI:
		return "uri"
	case KindDNS:
		return "dns"
	case KindVHost:
		return "vhost"
	case KindDirectory:
		return "dir"
	default:
		return "unknown"
	}
}

// MarshalText lets Kind appear by name in JSON payloads.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// WorkItem represents a single unit of work for the worker pool.
type WorkItem struct {
	Target string // normalized target (URL or bare host)
	Entry  string // wordlist candidate
	Kind   Kind
}
