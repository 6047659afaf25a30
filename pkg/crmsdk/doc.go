// Package crmsdk is the Go client for crmgate.
//
// SDKClient wraps the REST API. Store owns a session on top of it: it
// restores a persisted token at start (Bootstrap), exposes the state as a
// Snapshot and changes it only through its actions (Login, Logout,
// RefreshProfile, SetBusiness, SaveRole).
//
// Guard and FilterNav turn a Snapshot into routing and navigation
// decisions:
//
//	store := crmsdk.NewStore(crmsdk.NewSDKClient(baseURL), crmsdk.NewMemoryStorage())
//	_ = store.Bootstrap(ctx)
//
//	v := crmsdk.Guard(store.Snapshot(), crmsdk.Route{Path: "/invoices", Allow: rbac.CanViewInvoices})
//	if v.Outcome == crmsdk.Redirect {
//		navigate(v.RedirectTo)
//	}
//
// RoleEditor edits one role against Store.SaveRole and reverts its draft
// when the server rejects the change.
package crmsdk
