package list

import (
	"testing"

	"github.com/ValentinKolb/fKV/lib/db"
	dbtesting "github.com/ValentinKolb/fKV/lib/db/testing"
)

func Test(t *testing.T) {
	dbtesting.RunKVDBTests(t, "List", func() db.KVDB {
		return NewListDB()
	})
}

func Benchmark(b *testing.B) {
	dbtesting.RunKVDBBenchmarks(b, "List", func() db.KVDB {
		return NewListDB()
	})
}
