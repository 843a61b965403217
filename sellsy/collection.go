package sellsy

import (
	"context"
	"fmt"
	"strings"
)

// Module is the name of an API module, the part before the dot in
// "Document.getList".
type Module string

// Known API modules
const (
	ModuleAccountData   Module = "Accountdatas"
	ModuleAccountPrefs  Module = "AccountPrefs"
	ModuleAgenda        Module = "Agenda"
	ModuleAnnotations   Module = "Annotations"
	ModuleCatalogue     Module = "Catalogue"
	ModuleClient        Module = "Client"
	ModuleCustomFields  Module = "CustomFields"
	ModuleDocument      Module = "Document"
	ModuleEvent         Module = "Event"
	ModuleExpense       Module = "Expense"
	ModuleInfos         Module = "Infos"
	ModuleMails         Module = "Mails"
	ModuleOpportunities Module = "Opportunities"
	ModulePeoples       Module = "Peoples"
	ModuleProspects     Module = "Prospects"
	ModulePurchase      Module = "Purchase"
	ModuleSmartTags     Module = "SmartTags"
	ModuleStaffs        Module = "Staffs"
	ModuleStat          Module = "Stat"
	ModuleStock         Module = "Stock"
	ModuleSupport       Module = "Support"
	ModuleTimeTracking  Module = "Timetracking"
)

var knownModules = []Module{
	ModuleAccountData,
	ModuleAccountPrefs,
	ModuleAgenda,
	ModuleAnnotations,
	ModuleCatalogue,
	ModuleClient,
	ModuleCustomFields,
	ModuleDocument,
	ModuleEvent,
	ModuleExpense,
	ModuleInfos,
	ModuleMails,
	ModuleOpportunities,
	ModulePeoples,
	ModuleProspects,
	ModulePurchase,
	ModuleSmartTags,
	ModuleStaffs,
	ModuleStat,
	ModuleStock,
	ModuleSupport,
	ModuleTimeTracking,
}

// Modules returns the known modules
func Modules() []Module {
	out := make([]Module, len(knownModules))
	copy(out, knownModules)
	return out
}

// ParseModule finds a known module by name, ignoring case
func ParseModule(name string) (Module, bool) {
	for _, m := range knownModules {
		if strings.EqualFold(string(m), name) {
			return m, true
		}
	}
	return "", false
}

// Method joins the module with an action
func (m Module) Method(action string) string {
	return string(m) + "." + action
}

// SplitMethod splits "Module.action" into its parts. Unknown modules are
// accepted as given since the server is the authority on method names.
func SplitMethod(method string) (Module, string, error) {
	name, action, ok := strings.Cut(method, ".")
	if !ok || name == "" || action == "" || strings.Contains(action, ".") {
		return "", "", fmt.Errorf("invalid method %q (expected Module.action)", method)
	}
	if known, ok := ParseModule(name); ok {
		return known, action, nil
	}
	return Module(name), action, nil
}

// Collection forwards calls to a single API module
type Collection struct {
	requester Requester
	module    Module
}

// CollectionFactory builds a Collection for a module
type CollectionFactory func(r Requester, module Module) *Collection

// NewCollection binds module to r
func NewCollection(r Requester, module Module) *Collection {
	return &Collection{
		requester: r,
		module:    module,
	}
}

// Module returns the bound module
func (c *Collection) Module() Module {
	return c.module
}

// Call performs "<Module>.<method>" with params
func (c *Collection) Call(ctx context.Context, method string, params any) (*Response, error) {
	return c.requester.RequestAPI(ctx, RequestSettings{
		Method: c.module.Method(method),
		Params: params,
	})
}
