// Package session loads and stores mapped entities.
//
// Get loads the eager columns of a row. Deferred attributes are loaded
// on first access through Instance.Get: an attribute of a named group
// loads every column of the group, an individually deferred attribute
// loads its own column. Loaded groups can be kept in a bridge.Cache so
// that other instances of the same row do not query them again.
//
//	s := session.New(drv, session.WithCache(bridge.NewMemoryCache(), time.Minute))
//	a, err := s.Get(ctx, articles, 1)
//	if err != nil {
//	    return err
//	}
//	body, err := a.Get(ctx, "body")
package session
