package stackexchange

// DefaultBaseURL is the public Stack Exchange API endpoint.
const DefaultBaseURL = "https://api.stackexchange.com/2.3"

// site is the Stack Exchange site all resources are fetched from.
const site = "stackoverflow"

// Resource describes one fetchable API collection: its endpoint path
// suffix and the sort key the API expects for it.
type Resource struct {
	Kind string
	Sort string
}

// Resources returns the fixed set of collections the pipeline extracts,
// in processing order.
func Resources() []Resource {
	return []Resource{
		{Kind: "questions", Sort: "votes"},
		{Kind: "posts", Sort: "votes"},
		{Kind: "users", Sort: "reputation"},
		{Kind: "tags", Sort: "popular"},
		{Kind: "comments", Sort: "votes"},
	}
}

// Params returns the query parameters for fetching the resource.
func (r Resource) Params() map[string]string {
	return map[string]string{
		"site":  site,
		"order": "desc",
		"sort":  r.Sort,
	}
}

// OutputFile returns the CSV file name the resource is written to.
func (r Resource) OutputFile() string {
	return "stackoverflow_" + r.Kind + ".csv"
}
