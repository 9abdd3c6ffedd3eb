// ABOUTME: Static tables the deal synthesizer samples from.
// ABOUTME: Companies with their workspace display names, deal owners, and the ordered pipeline stages.

package deals

// Company is a customer account and the workspace display names it owns.
type Company struct {
	Name       string
	Workspaces []string
}

// Owner is a sales rep that deals are assigned to.
type Owner struct {
	Name  string
	Email string
}

var companies = []Company{
	{Name: "Glow Communications", Workspaces: []string{"Glow AI", "Glow Solutions", "Glow"}},
	{Name: "Volt", Workspaces: []string{"Volt Solutions", "Volt"}},
	{Name: "Nova - Community Association Management", Workspaces: []string{"Nova Solutions", "Nova AI", "Nova Works"}},
	{Name: "Keen.com", Workspaces: []string{"Keen", "Keen Data", "Keen Works"}},
	{Name: "IRIS Centre", Workspaces: []string{"Iris Studio", "Iris"}},
	{Name: "Quest Software", Workspaces: []string{"Quest"}},
	{Name: "Bolt", Workspaces: []string{"Bolt", "Bolt Solutions", "Bolt Data", "Bolt AI"}},
	{Name: "WAVE", Workspaces: []string{"Wave Labs", "Wave Data", "Wave Software", "Wave"}},
	{Name: "Pulse 2.0", Workspaces: []string{"Pulse Data"}},
	{Name: "Accel", Workspaces: []string{"Accel", "Accel Studio"}},
	{Name: "Riot Comedy Club", Workspaces: []string{"Riot Systems", "Riot Tech", "Riot"}},
	{Name: "Helix", Workspaces: []string{"Helix Software", "Helix", "Helix Works", "Helix Labs"}},
	{Name: "Journey", Workspaces: []string{"Jolt Data"}},
	{Name: "7Sage", Workspaces: []string{"Sage", "Sage Data"}},
	{Name: "Fashion Nova", Workspaces: []string{"Nova Data"}},
	{Name: "Grupo Cosmic", Workspaces: []string{"Cosmic", "Cosmic Systems"}},
	{Name: "Orbit", Workspaces: []string{"Orbit", "Orbit Labs", "Orbit Works", "Orbit Software"}},
	{Name: "Terra", Workspaces: []string{"Terra", "Terra Works"}},
	{Name: "Iris", Workspaces: []string{"Iris Software", "Iris Solutions", "Iris Tech"}},
	{Name: "Yield Communications", Workspaces: []string{"Yield Tech", "Yield"}},
	{Name: "ZOOM.COM.NG", Workspaces: []string{"Zoom"}},
	{Name: "Salesloft", Workspaces: []string{"Drift", "Drift Software", "Drift Systems"}},
	{Name: "LUNAR", Workspaces: []string{"Lunar Data", "Lunar"}},
	{Name: "Attio", Workspaces: []string{"Unnamed Workspace"}},
	{Name: "Sanan Media", Workspaces: []string{"Xenon Labs", "Xenon"}},
	{Name: "Mist", Workspaces: []string{"Mist Studio", "Mist Systems"}},
	{Name: "Jolt Software", Workspaces: []string{"Jolt Systems", "Jolt"}},
	{Name: "9flux", Workspaces: []string{"Flux Tech", "Flux"}},
	{Name: "Echo Global Logistics", Workspaces: []string{"Echo AI", "Echo Works", "Echo"}},
	{Name: "Lullwater & Co", Workspaces: []string{"Lunar Tech"}},
	{Name: "Unity Communications", Workspaces: []string{"Unity Systems"}},
	{Name: "Pulse", Workspaces: []string{"Pulse", "Pulse Labs"}},
	{Name: "Wave Mobile Money", Workspaces: []string{"Wave AI"}},
	{Name: "AdMedia", Workspaces: []string{"Yield Design"}},
	{Name: "Unity", Workspaces: []string{"Unity Labs"}},
}

// Only the first owner is assigned today.
var owners = []Owner{
	{Name: "Dom Eccleston", Email: "dom@attio.com"},
}

const associatedPeople = "Dominic Eccleston"

var stages = []string{
	"Lead",
	"Qualified",
	"Meeting Scheduled",
	"Proposal",
	"Negotiation",
	"Closed Won",
	"Closed Lost",
}

// DefaultCatalog returns a copy of the built-in company table.
func DefaultCatalog() []Company {
	out := make([]Company, len(companies))
	for i, c := range companies {
		out[i] = Company{Name: c.Name, Workspaces: append([]string(nil), c.Workspaces...)}
	}
	return out
}

// DefaultOwners returns a copy of the built-in owner table.
func DefaultOwners() []Owner {
	return append([]Owner(nil), owners...)
}

// Stages returns the pipeline stages in order.
func Stages() []string {
	return append([]string(nil), stages...)
}
