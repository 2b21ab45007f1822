// Package testutil provides throwaway infrastructure for tests: an
// in-memory sqlite database, a miniredis-backed redis client, a logger
// that writes through t.Log and component lifecycle helpers.
//
//	func TestStore(t *testing.T) {
//	    db := testutil.NewDB(t, &users.User{})
//	    store := users.NewGormStore(db)
//	    ...
//	}
//
// Everything is released through t.Cleanup.
package testutil
