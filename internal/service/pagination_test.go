package service

import (
	"context"
	"fmt"
	"testing"

	"shop-admin/internal/database/dbtest"
	"shop-admin/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListParams_Normalize(t *testing.T) {
	tests := []struct {
		in   ListParams
		want ListParams
	}{
		{ListParams{}, ListParams{Page: 1, PageSize: DefaultPageSize}},
		{ListParams{Page: 3, PageSize: 500, Search: "  x "}, ListParams{Page: 3, PageSize: MaxPageSize, Search: "x"}},
		{ListParams{Page: -1, PageSize: 10}, ListParams{Page: 1, PageSize: 10}},
	}
	for _, tt := range tests {
		got := tt.in
		got.normalize()
		assert.Equal(t, tt.want, got)
	}
}

func TestPage_TotalPages(t *testing.T) {
	assert.Equal(t, 0, Page[int]{Total: 0, PageSize: 20}.TotalPages())
	assert.Equal(t, 1, Page[int]{Total: 20, PageSize: 20}.TotalPages())
	assert.Equal(t, 2, Page[int]{Total: 21, PageSize: 20}.TotalPages())
}

func TestPaginate(t *testing.T) {
	db := dbtest.New(t)
	for i := 1; i <= 7; i++ {
		require.NoError(t, db.Create(&models.Brand{Name: fmt.Sprintf("brand-%02d", i)}).Error)
	}

	page, err := paginate[models.Brand](db.WithContext(context.Background()).Model(&models.Brand{}), ListParams{Page: 2, PageSize: 3}, "name")
	require.NoError(t, err)
	assert.Equal(t, int64(7), page.Total)
	assert.Equal(t, 3, page.TotalPages())
	require.Len(t, page.Items, 3)
	assert.Equal(t, "brand-04", page.Items[0].Name)

	page, err = paginate[models.Brand](db.Model(&models.Brand{}), ListParams{Page: 9, PageSize: 3}, "name")
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
}
