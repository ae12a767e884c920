package modcache

// Status is the lifecycle state of a Record.
type Status string

const (
	StatusAbsent    Status = "absent"
	StatusLoading   Status = "loading"
	StatusResolving Status = "resolving"
	StatusSettled   Status = "settled"
)

func (s Status) String() string {
	return string(s)
}
