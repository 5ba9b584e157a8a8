package ownership

type Mode int

const (
	None Mode = iota
	Borrowed
	Exclusive
	Shared
)

func (m Mode) String() string {
	switch m {
	case None:
		return "none"
	case Borrowed:
		return "borrowed"
	case Exclusive:
		return "exclusive"
	case Shared:
		return "shared"
	default:
		return "unknown"
	}
}
