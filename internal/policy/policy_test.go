package policy

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type item struct {
	id    uuid.UUID
	owner uuid.UUID
	vis   Visibility
}

func (i item) OwnerRef() uuid.UUID       { return i.owner }
func (i item) VisibilityRef() Visibility { return i.vis }

func TestMarkerVisibility(t *testing.T) {
	owner := Principal{ID: uuid.New(), Role: RoleUser}
	other := Principal{ID: uuid.New(), Role: RoleUser}
	admin := Principal{ID: uuid.New(), Role: RoleAdmin}

	cases := []struct {
		name   string
		vis    Visibility
		p      Principal
		view   bool
		listed bool
	}{
		{"public anonymous", Public, Anonymous, true, true},
		{"public other", Public, other, true, true},
		{"unlisted anonymous", Unlisted, Anonymous, true, false},
		{"unlisted other", Unlisted, other, true, false},
		{"unlisted owner", Unlisted, owner, true, true},
		{"private anonymous", Private, Anonymous, false, false},
		{"private other", Private, other, false, false},
		{"private owner", Private, owner, true, true},
		{"private admin", Private, admin, true, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m := item{id: uuid.New(), owner: owner.ID, vis: c.vis}
			assert.Equal(t, c.view, CanViewMarker(c.p, m))
			assert.Equal(t, c.listed, ListsMarker(c.p, m))
		})
	}
}

func TestTagVisibility(t *testing.T) {
	owner := Principal{ID: uuid.New(), Role: RoleUser}
	other := Principal{ID: uuid.New(), Role: RoleUser}

	assert.True(t, CanViewTag(Anonymous, item{owner: owner.ID, vis: Public}))
	assert.False(t, CanViewTag(other, item{owner: owner.ID, vis: Private}))
	assert.False(t, CanViewTag(other, item{owner: owner.ID, vis: Unlisted}))
	assert.True(t, CanViewTag(owner, item{owner: owner.ID, vis: Private}))
}

func TestCanMutate(t *testing.T) {
	owner := Principal{ID: uuid.New(), Role: RoleUser}
	other := Principal{ID: uuid.New(), Role: RoleUser}
	admin := Principal{ID: uuid.New(), Role: RoleAdmin}
	m := item{owner: owner.ID, vis: Public}

	assert.True(t, CanMutate(owner, m))
	assert.True(t, CanMutate(admin, m))
	assert.False(t, CanMutate(other, m))
	assert.False(t, CanMutate(Anonymous, m))

	// an anonymous principal never owns the nil owner
	assert.False(t, CanMutate(Anonymous, item{owner: uuid.Nil}))
}

func TestCanDeleteCommentAndManageUser(t *testing.T) {
	author := Principal{ID: uuid.New(), Role: RoleUser}
	other := Principal{ID: uuid.New(), Role: RoleUser}
	admin := Principal{ID: uuid.New(), Role: RoleAdmin}

	assert.True(t, CanDeleteComment(author, author.ID))
	assert.True(t, CanDeleteComment(admin, author.ID))
	assert.False(t, CanDeleteComment(other, author.ID))

	assert.True(t, CanManageUser(author, author.ID))
	assert.True(t, CanManageUser(admin, author.ID))
	assert.False(t, CanManageUser(other, author.ID))
}

func TestMatchesTags(t *testing.T) {
	desired := map[string]struct{}{"natura": {}, "sport": {}}

	assert.True(t, MatchesTags([]string{"kultura", "natura"}, desired))
	assert.False(t, MatchesTags([]string{"kultura"}, desired))
	assert.False(t, MatchesTags(nil, desired))
	assert.True(t, MatchesTags(nil, nil))
}

func TestFilterListed(t *testing.T) {
	me := Principal{ID: uuid.New(), Role: RoleUser}
	someone := uuid.New()

	mine := item{id: uuid.New(), owner: me.ID, vis: Private}
	public := item{id: uuid.New(), owner: someone, vis: Public}
	hidden := item{id: uuid.New(), owner: someone, vis: Unlisted}

	got := FilterListed(me, []item{mine, public, hidden, public}, func(i item) uuid.UUID { return i.id })
	assert.Equal(t, []item{mine, public}, got)

	got = FilterListed(Anonymous, []item{mine, public, hidden}, func(i item) uuid.UUID { return i.id })
	assert.Equal(t, []item{public}, got)
}
