package renderer

import (
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// configToProto maps human-readable config strings to Rod protocol resource
// types. Stylesheet is deliberately absent: the analyzer aggregates the
// page's stylesheets, so blocking them would hollow out the result. Script
// is likewise absent because tracker and CMS fingerprints frequently arrive
// in script-injected markup.
var configToProto = map[string]proto.NetworkResourceType{
	"Image": proto.NetworkResourceTypeImage,
	"Font":  proto.NetworkResourceTypeFont,
	"Media": proto.NetworkResourceTypeMedia,
}

// setupHijack installs a request interceptor on the page that blocks the
// configured resource types. Returns the running HijackRouter so the caller
// can defer router.Stop(), or nil when there is nothing to block.
//
// Mounting the router switches the fetcher's wait strategy to DOM-stable:
// the router and WaitRequestIdle share the CDP Fetch domain.
func setupHijack(page *rod.Page, blockedTypes []string) *rod.HijackRouter {
	blocked := make(map[proto.NetworkResourceType]struct{}, len(blockedTypes))
	for _, name := range blockedTypes {
		if rt, ok := configToProto[name]; ok {
			blocked[rt] = struct{}{}
		}
	}
	if len(blocked) == 0 {
		return nil
	}

	router := page.HijackRequests()

	// Pattern "*" + empty resourceType = intercept ALL requests, then
	// decide per-request whether to block or continue.
	_ = router.Add("*", "", func(ctx *rod.Hijack) {
		if _, shouldBlock := blocked[ctx.Request.Type()]; shouldBlock {
			ctx.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}
		ctx.ContinueRequest(&proto.FetchContinueRequest{})
	})

	// router.Run() blocks, so it must live in its own goroutine.
	// It will exit when router.Stop() is called.
	go router.Run()

	return router
}
