package domain

import "fmt"

// Backend identifies which storage engine answers analytics queries.
// It is chosen once per process.
type Backend int

const (
	Relational Backend = iota + 1
	Columnar
)

func (b Backend) String() string {
	switch b {
	case Relational:
		return "relational"
	case Columnar:
		return "columnar"
	default:
		return fmt.Sprintf("backend(%d)", int(b))
	}
}

func ParseBackend(s string) (Backend, error) {
	switch s {
	case "relational", "postgresql", "postgres":
		return Relational, nil
	case "columnar", "clickhouse":
		return Columnar, nil
	default:
		return 0, fmt.Errorf("unknown analytics backend %q", s)
	}
}
