package cache

import (
	"hash/fnv"
	"slices"
	"strconv"
	"strings"
)

// KeyPrefix namespaces every cache key written to Redis.
const KeyPrefix = "artic:cache"

// PageKey identifies one cached listing page. Two requests share an entry
// only when they ask for the same page, page size and field list.
type PageKey struct {
	Page   int
	Limit  int
	Fields []string
}

// String renders the Redis key:
//
//	artic:cache:artworks:p=2:l=12:f=9c1d6a2e
//
// The field list is folded into a short hash so key length stays fixed
// no matter how many fields are requested. Field order does not matter.
func (k PageKey) String() string {
	var b strings.Builder
	b.WriteString(KeyPrefix)
	b.WriteString(":artworks:p=")
	b.WriteString(strconv.Itoa(k.Page))
	b.WriteString(":l=")
	b.WriteString(strconv.Itoa(k.Limit))
	if len(k.Fields) > 0 {
		b.WriteString(":f=")
		b.WriteString(fieldsHash(k.Fields))
	}
	return b.String()
}

func fieldsHash(fields []string) string {
	sorted := slices.Clone(fields)
	slices.Sort(sorted)
	h := fnv.New32a()
	h.Write([]byte(strings.Join(sorted, ",")))
	return strconv.FormatUint(uint64(h.Sum32()), 16)
}
