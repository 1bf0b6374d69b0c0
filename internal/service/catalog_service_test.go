package service

import (
	"context"
	"testing"

	"campus-market/internal/apperr"
	"campus-market/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogService_CreateAndGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice", models.RoleSeller)

	created, err := f.catalog.Create(ctx, alice, &models.ItemInput{
		Title:     "  Calculus Textbook ",
		Price:     dec("40.00"),
		Category:  "books",
		Condition: "good",
	})
	require.NoError(t, err)
	assert.Equal(t, "Calculus Textbook", created.Title)

	got, err := f.catalog.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.SellerName)
	assert.Equal(t, alice.UserID, got.SellerID)
	assert.True(t, dec("40.00").Equal(got.Price))

	_, err = f.catalog.Get(ctx, created.ID+100)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestCatalogService_CreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seller := f.user(t, "seller", models.RoleBoth)
	buyer := f.user(t, "buyer", models.RoleBuyer)

	tests := []struct {
		name  string
		actor models.Actor
		in    models.ItemInput
		want  apperr.Code
	}{
		{name: "buyer cannot list", actor: buyer, in: models.ItemInput{Title: "Desk", Price: dec("10")}, want: apperr.CodeForbidden},
		{name: "blank title", actor: seller, in: models.ItemInput{Title: "  ", Price: dec("10")}, want: apperr.CodeValidation},
		{name: "negative price", actor: seller, in: models.ItemInput{Title: "Desk", Price: dec("-1")}, want: apperr.CodeValidation},
		{name: "sub-cent price", actor: seller, in: models.ItemInput{Title: "Lamp", Price: dec("19.999")}, want: apperr.CodeValidation},
		{name: "price above column range", actor: seller, in: models.ItemInput{Title: "Yacht", Price: dec("100000000.00")}, want: apperr.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.catalog.Create(ctx, tt.actor, &tt.in)
			assert.Equal(t, tt.want, apperr.CodeOf(err))
		})
	}

	free, err := f.catalog.Create(ctx, seller, &models.ItemInput{Title: "Free Boxes", Price: dec("0")})
	require.NoError(t, err)
	assert.True(t, free.Price.IsZero())

	top, err := f.catalog.Create(ctx, seller, &models.ItemInput{Title: "Piano", Price: dec("99999999.99")})
	require.NoError(t, err)
	got, err := f.catalog.Get(ctx, top.ID)
	require.NoError(t, err)
	assert.True(t, dec("99999999.99").Equal(got.Price))
}

func TestCatalogService_Ownership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner", models.RoleSeller)
	other := f.user(t, "other", models.RoleSeller)
	item := f.item(t, owner, "Microwave", "30.00")

	_, err := f.catalog.Update(ctx, other, item.ID, &models.ItemInput{Title: "Mine now", Price: dec("1")})
	assert.Equal(t, apperr.CodeForbidden, apperr.CodeOf(err))

	err = f.catalog.Delete(ctx, other, item.ID)
	assert.Equal(t, apperr.CodeForbidden, apperr.CodeOf(err))

	updated, err := f.catalog.Update(ctx, owner, item.ID, &models.ItemInput{Title: "Microwave 700W", Price: dec("28.00"), Category: "kitchen"})
	require.NoError(t, err)
	assert.Equal(t, "kitchen", updated.Category)

	require.NoError(t, f.catalog.Delete(ctx, owner, item.ID))
	_, err = f.catalog.Get(ctx, item.ID)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestCatalogService_Queries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s1 := f.user(t, "s1", models.RoleSeller)
	s2 := f.user(t, "s2", models.RoleSeller)
	f.item(t, s1, "Physics Notes", "5.00")
	f.item(t, s2, "Chemistry Kit", "15.00")

	all, err := f.catalog.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	books, err := f.catalog.ListByCategory(ctx, "books")
	require.NoError(t, err)
	assert.Len(t, books, 2)

	mine, err := f.catalog.ListBySeller(ctx, s2.UserID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Chemistry Kit", mine[0].Title)

	found, err := f.catalog.Search(ctx, " physics ")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, s1.UserID, found[0].SellerID)
}
