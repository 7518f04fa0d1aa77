package fallback

import (
	"fmt"

	"github.com/tinyland-inc/rashomon/pkg/lens"
)

// Generic paragraphs, one per lens. The event text is substituted into the
// opening sentence; everything after it is fixed.
var templates = map[lens.Lens]string{
	lens.Establishment: "Regarding %s, an official historiographical account privileges institutional continuity and documentary authority. " +
		"Archival records, legislative decrees, and certified commissions shape a narrative of orderly progression in which causes are cataloged, actors are named, and outcomes are standardized for civic instruction. " +
		"Emphasis rests on procedural legitimacy and the stability of public administration; disruptions are treated as anomalies reconciled by law, policy, or reform. " +
		"Complexity is distilled into timelines, charters, and minutes, producing a coherent summary that affirms the integrity of the established order. " +
		"Meaning derives from validated sources and formal precedence, situating the event within a framework designed to sustain continuity and public trust.",
	lens.Money: "Viewed through economic determinism, %s emerges from converging incentives, capital flows, and strategic positioning. " +
		"Financial actors—merchants, banks, investors, and the state’s fiscal apparatus—seek returns, arbitrage, and market access, translating uncertainty into instruments and contracts. " +
		"Winners consolidate gains via taxation regimes, corporate charters, and infrastructural sponsorship; losers absorb externalities as volatility, debt, or dispossession. " +
		"Institutions arbitrate competition while interest groups broker favorable terms, ensuring accumulation persists across cycles. " +
		"The question of who benefits is not rhetorical but empirical: follow the subsidies, trade routes, and underwriting risks to locate the durable advantages engineered around the event.",
	lens.Subtext: "Under a postmodern and Foucauldian reading, %s is a discourse event rather than a neutral sequence of facts. " +
		"Power circulates through institutional vocabularies, disciplinary norms, and silences that delimit who may speak and what counts as knowledge. " +
		"Subaltern voices appear as objects of classification while expert terminology naturalizes surveillance, risk, and correction. " +
		"The archive functions as an instrument of governance, scripting compliance through categories and metrics that render subjects legible and manageable. " +
		"Resistance survives in fragments—rumor, performance, vernacular theory—challenging the inevitability of official plots and exposing regimes of truth that organize perception and consent.",
}

// Generic returns the template paragraph for l with event substituted.
// An invalid lens yields an empty string.
func Generic(l lens.Lens, event string) string {
	tmpl, ok := templates[l]
	if !ok {
		return ""
	}
	return fmt.Sprintf(tmpl, event)
}

// Builtin curated entry for the 1492 voyage. It also answers for the blank
// placeholder event so an empty submission still shows a worked example.
var columbus = Entry{
	Name:        "columbus",
	Keywords:    []string{"columbus"},
	Placeholder: true,
	Texts: map[lens.Lens]string{
		lens.Establishment: "> \"**The Dawn of a Global Era.** The 1492 expedition marked a pivotal threshold in human history, bridging the Old World and the New. " +
			"Despite logistical challenges, the voyage expanded the frontiers of Western civilization, facilitating a permanent global exchange of goods, culture, and theology. " +
			"It laid the institutional foundations for modern nation-states in the Americas and integrated isolated ecosystems into the world economy.\"",
		lens.Money: "> \"**A High-Risk Venture Capital Investment.** Forget the adventure narrative; look at the balance sheet. " +
			"The voyage was funded by the Spanish Crown specifically to break the Ottoman monopoly on spice trade routes. " +
			"The immediate driver was not 'civilization,' but the desperate need for new markets and the extraction of gold and silver—resources that would later fuel European inflation and the rise of merchant capitalism.\"",
		lens.Subtext: "> \"**The Myth of 'Discovery'.** The term itself is a colonial construct—one cannot 'discover' a land already inhabited by millions. " +
			"This narrative silences indigenous agency and sanitizes the subsequent demographic collapse as 'expansion.' " +
			"1492 was not a meeting, but the beginning of a systematic erasure of non-Western epistemologies and the imposition of a hegemonic racial hierarchy.\"",
	},
}

// BuiltinEntries returns the compiled-in curated entries.
func BuiltinEntries() []Entry {
	return []Entry{columbus.clone()}
}
