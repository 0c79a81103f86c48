// Package api provides the HTTP API for the application
package api

import (
	"tdsdesk/internal/adapters/dedupe"
	"tdsdesk/internal/platform/config"
	"tdsdesk/internal/platform/logger"
	phttp "tdsdesk/internal/platform/net/http"
	"tdsdesk/internal/platform/net/middleware"
	"tdsdesk/internal/platform/store"

	"tdsdesk/internal/modkit"
	"tdsdesk/internal/modkit/httpkit"
	"tdsdesk/internal/modkit/module"
	"tdsdesk/internal/modkit/swaggerkit"

	convapi "tdsdesk/internal/services/api/conversations/module"
	interapi "tdsdesk/internal/services/api/interactions/module"
	metamod "tdsdesk/internal/services/api/meta/module"
	queryapi "tdsdesk/internal/services/api/query/module"
	webhookapi "tdsdesk/internal/services/api/webhook/module"

	adom "tdsdesk/internal/services/assistant/domain"
	assistantmod "tdsdesk/internal/services/assistant/module"
	convmod "tdsdesk/internal/services/conversations/module"
	idom "tdsdesk/internal/services/interactions/domain"
	intermod "tdsdesk/internal/services/interactions/module"
	productsmod "tdsdesk/internal/services/products/module"
	turnstatsmod "tdsdesk/internal/services/turnstats/module"
)

// Oracle is the generative model surface the API needs
type Oracle interface {
	adom.Oracle
	idom.Analyzer
}

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
	// CORSOrigins are the browser origins allowed; empty allows any
	CORSOrigins []string

	// Oracle answers and analyzes; use oracle.Disabled when unconfigured
	Oracle Oracle
	// Replies are the canned texts, usually a prompts catalog
	Replies adom.Replies
	// Sender pushes messaging answers; nil disables delivery
	Sender adom.SenderPort
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// load balancer probe, answered before routing
	r.Use(middleware.Heartbeat("/health"))

	// shared deps for modules
	deps := modkit.Deps{
		Cfg:   opt.Config,
		PG:    opt.Store.PG,
		CH:    opt.Store.CH,
		Redis: opt.Store.Redis,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	// service modules first, their ports feed the API modules
	products := productsmod.New(deps)
	interactions := intermod.New(deps, opt.Oracle)
	conversations := convmod.New(deps)
	turnstats := turnstatsmod.New(deps)

	pp := module.MustPortsOf[productsmod.Ports](products)
	ip := module.MustPortsOf[intermod.Ports](interactions)
	cp := module.MustPortsOf[convmod.Ports](conversations)
	tp := module.MustPortsOf[turnstatsmod.Ports](turnstats)

	assistant := assistantmod.New(deps, assistantmod.Wiring{
		Oracle:   opt.Oracle,
		Replies:  opt.Replies,
		Matcher:  pp.Matcher,
		Recorder: ip.Recorder,
		Sink:     tp.Sink,
		Sender:   opt.Sender,
	})
	ap := module.MustPortsOf[assistantmod.Ports](assistant)

	var guard dedupe.Guard = dedupe.Noop{}
	if opt.Store.Redis != nil {
		guard = dedupe.NewRedis(opt.Store.Redis, "", dedupe.DefaultTTL)
	}
	webhook := webhookapi.New(deps, modkit.WithPorts(webhookapi.Ports{
		Threads: cp.Threads,
		Ask:     ap.Ask,
		Deliver: ap.Deliver,
		Dedupe:  guard,
	}))

	var turnsReader metamod.Ports
	if tp.Enabled {
		turnsReader.Turns = tp.Reader
	}

	mods := []module.Module{
		products,
		interactions,
		conversations,
		turnstats,
		assistant,
		metamod.New(deps, modkit.WithPorts(turnsReader)),
		queryapi.New(deps, modkit.WithPorts(queryapi.Ports{Ask: ap.Ask})),
		interapi.New(deps, modkit.WithPorts(interapi.Ports{Analyze: ip.Analyze, Reader: ip.Reader})),
		convapi.New(deps, modkit.WithPorts(convapi.Ports{Reader: cp.Reader})),
		webhook,
	}

	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	stack := httpkit.CommonStack(opt.CORSOrigins...)
	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		for _, m := range mods {
			m.MountRoutes(api)
		}
	})

	// messaging providers are configured with the bare /webhook callback
	r.Group(func(root httpkit.Router) {
		root.Use(stack...)
		webhook.MountRoutes(root)
	})
}
