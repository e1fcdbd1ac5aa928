// Package core holds the in-memory result model: Items, Collections of items
// with their error messages, and MultiCollections that merge the results of
// several source queries before they are filtered, ordered and truncated.
//
// Items are plain key-value maps. Fields are resolved by name at runtime and a
// missing field surfaces as ErrInvalidField ("Property not defined.").
//
//	c := core.NewMultiCollection().
//		Append(fromBoard).
//		Append(fromFeed)
//	if _, err := c.Filter("remote", true); err != nil {
//		return err
//	}
//	if _, err := c.OrderBy("posted_at"); err != nil {
//		return err
//	}
//	c.Truncate(10)
package core
