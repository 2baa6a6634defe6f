package engine

import (
	"sort"
	"strings"
)

// serviceAliases maps lowercase user terms to canonical catalog service
// names. Initialized once at startup and never mutated; this is the only
// process-wide state the engine relies on.
var serviceAliases = map[string]string{
	"app service":  "Azure App Service",
	"app services": "Azure App Service",
	"web app":      "Azure App Service",
	"web apps":     "Azure App Service",
	"web service":  "Azure App Service",
	"websites":     "Azure App Service",

	"virtual machine": "Virtual Machines",
	"vm":              "Virtual Machines",
	"vms":             "Virtual Machines",
	"compute":         "Virtual Machines",

	"storage":      "Storage",
	"blob":         "Storage",
	"blob storage": "Storage",
	"file storage": "Storage",
	"disk":         "Storage",

	"sql":          "Azure SQL Database",
	"sql database": "Azure SQL Database",
	"sql server":   "Azure SQL Database",
	"database":     "Azure SQL Database",

	"cosmos":      "Azure Cosmos DB",
	"cosmosdb":    "Azure Cosmos DB",
	"cosmos db":   "Azure Cosmos DB",
	"document db": "Azure Cosmos DB",

	"kubernetes":        "Azure Kubernetes Service",
	"aks":               "Azure Kubernetes Service",
	"k8s":               "Azure Kubernetes Service",
	"container service": "Azure Kubernetes Service",

	"functions":    "Azure Functions",
	"function app": "Azure Functions",
	"serverless":   "Azure Functions",

	"redis": "Azure Cache for Redis",
	"cache": "Azure Cache for Redis",

	"ai":                 "Azure AI services",
	"cognitive":          "Azure AI services",
	"cognitive services": "Azure AI services",
	"openai":             "Azure OpenAI",

	"networking": "Virtual Network",
	"network":    "Virtual Network",
	"vnet":       "Virtual Network",

	"load balancer": "Load Balancer",
	"lb":            "Load Balancer",

	"application gateway": "Application Gateway",
	"app gateway":         "Application Gateway",
}

// aliasKeys holds the alias table keys in sorted order so that partial-match
// scans visit candidates deterministically.
var aliasKeys = func() []string {
	keys := make([]string, 0, len(serviceAliases))
	for k := range serviceAliases {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}()

// CanonicalService resolves a user term to a canonical catalog service name
// via the alias table. The lookup is case-insensitive.
func CanonicalService(term string) (string, bool) {
	name, ok := serviceAliases[strings.ToLower(term)]
	return name, ok
}

// aliasCandidates returns the distinct canonical service names whose alias
// keys overlap the term (either string contains the other), preserving the
// sorted key order.
func aliasCandidates(term string) []string {
	term = strings.ToLower(term)
	seen := make(map[string]bool)
	var candidates []string
	for _, key := range aliasKeys {
		if !strings.Contains(key, term) && !strings.Contains(term, key) {
			continue
		}
		name := serviceAliases[key]
		if seen[name] {
			continue
		}
		seen[name] = true
		candidates = append(candidates, name)
	}
	return candidates
}
