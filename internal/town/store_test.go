package town

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pixil98/go-testutil"
)

// townPtrCmp compares towns by identity; Town has unexported fields
// (including a mutex) that cmp cannot walk.
var townPtrCmp = cmp.Comparer(func(a, b *Town) bool { return a == b })

func newTestStore() *Store {
	maps := &MapStore{maps: map[string]*TiledMap{
		"indoors.json": testMap(
			TiledObject{Name: "Name1", Type: KindDiscussionArea, X: 0, Y: 0, Width: 100, Height: 100},
		),
		"broken.json": testMap(
			TiledObject{Name: "Name1", Type: KindDiscussionArea, X: 0, Y: 0, Width: 100, Height: 100},
			TiledObject{Name: "Name2", Type: KindDiscussionArea, X: 50, Y: 50, Width: 100, Height: 100},
		),
	}}
	return NewStore(newRecordingPublisher(), maps, "indoors.json")
}

func TestCreateTown(t *testing.T) {
	tests := map[string]struct {
		friendlyName string
		mapFile      string
		expErr       string
	}{
		"default map":        {friendlyName: "my town"},
		"explicit map":       {friendlyName: "my town", mapFile: "indoors.json"},
		"empty name":         {mapFile: "indoors.json", expErr: "friendlyName must be specified"},
		"unknown map":        {friendlyName: "my town", mapFile: "missing.json", expErr: "unknown map file"},
		"invalid map layout": {friendlyName: "my town", mapFile: "broken.json", expErr: "overlap"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			store := newTestStore()
			tw, err := store.CreateTown(tt.friendlyName, true, tt.mapFile)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "friendly name", tw.FriendlyName(), tt.friendlyName)
			testutil.AssertEqual(t, "password length", len(tw.UpdatePassword()), 24)
			testutil.AssertEqual(t, "registered", store.GetTown(tw.ID()), tw, townPtrCmp)
		})
	}
}

func TestListTowns(t *testing.T) {
	store := newTestStore()
	public, err := store.CreateTown("public town", true, "")
	if err != nil {
		t.Fatalf("creating town: %v", err)
	}
	if _, err := store.CreateTown("private town", false, ""); err != nil {
		t.Fatalf("creating town: %v", err)
	}

	list := store.ListTowns()
	testutil.AssertEqual(t, "only public towns listed", len(list), 1)
	testutil.AssertEqual(t, "town id", list[0].TownID, public.ID())
	testutil.AssertEqual(t, "friendly name", list[0].FriendlyName, "public town")
	testutil.AssertEqual(t, "current occupancy", list[0].CurrentOccupancy, 0)
	testutil.AssertEqual(t, "maximum occupancy", list[0].MaximumOccupancy, 50)

	// delisting a town removes it from the directory without deleting it
	ok := store.UpdateTown(public.ID(), public.UpdatePassword(), nil, boolPtr(false))
	testutil.AssertEqual(t, "update accepted", ok, true)
	testutil.AssertEqual(t, "delisted", len(store.ListTowns()), 0)
	testutil.AssertEqual(t, "still reachable", store.GetTown(public.ID()), public, townPtrCmp)
}

func TestUpdateTown(t *testing.T) {
	store := newTestStore()
	tw, err := store.CreateTown("my town", true, "")
	if err != nil {
		t.Fatalf("creating town: %v", err)
	}

	ok := store.UpdateTown(tw.ID(), "wrong password", strPtr("renamed"), nil)
	testutil.AssertEqual(t, "wrong password rejected", ok, false)
	testutil.AssertEqual(t, "name unchanged", tw.FriendlyName(), "my town")

	ok = store.UpdateTown("no-such-town", tw.UpdatePassword(), strPtr("renamed"), nil)
	testutil.AssertEqual(t, "unknown town rejected", ok, false)

	ok = store.UpdateTown(tw.ID(), tw.UpdatePassword(), strPtr("renamed"), boolPtr(false))
	testutil.AssertEqual(t, "update accepted", ok, true)
	testutil.AssertEqual(t, "name changed", tw.FriendlyName(), "renamed")
	testutil.AssertEqual(t, "listing changed", tw.IsPubliclyListed(), false)
}

func TestDeleteTown(t *testing.T) {
	store := newTestStore()
	tw, err := store.CreateTown("my town", true, "")
	if err != nil {
		t.Fatalf("creating town: %v", err)
	}

	testutil.AssertEqual(t, "wrong password rejected", store.DeleteTown(tw.ID(), "nope"), false)
	testutil.AssertEqual(t, "town survives", store.GetTown(tw.ID()), tw, townPtrCmp)

	testutil.AssertEqual(t, "delete accepted", store.DeleteTown(tw.ID(), tw.UpdatePassword()), true)
	testutil.AssertEqual(t, "unregistered", store.GetTown(tw.ID()) == nil, true)
	testutil.AssertEqual(t, "second delete rejected", store.DeleteTown(tw.ID(), tw.UpdatePassword()), false)
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
