package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPagination(t *testing.T) {
	tests := []struct {
		name       string
		in         Pagination
		wantOffset int
		wantLimit  int
	}{
		{name: "defaults", in: Pagination{}, wantOffset: 0, wantLimit: DefaultPageSize},
		{name: "third page", in: Pagination{Page: 3, PageSize: 10}, wantOffset: 20, wantLimit: 10},
		{name: "page size capped", in: Pagination{Page: 2, PageSize: 1000}, wantOffset: MaxPageSize, wantLimit: MaxPageSize},
		{name: "negative page", in: Pagination{Page: -4, PageSize: 5}, wantOffset: 0, wantLimit: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.in
			assert.Equal(t, tt.wantOffset, p.Offset())
			assert.Equal(t, tt.wantLimit, p.Limit())
		})
	}
}

func TestPagination_Info(t *testing.T) {
	p := &Pagination{Page: 2, PageSize: 10}

	assert.Equal(t, PageInfo{Page: 2, PageSize: 10, Total: 21, TotalPages: 3}, p.Info(21))
	assert.Equal(t, 0, p.Info(0).TotalPages)
	assert.Equal(t, 2, p.Info(20).TotalPages)
}
