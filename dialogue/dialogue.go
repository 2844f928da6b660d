package dialogue

import "fmt"

// Ctx is the conversation state carried across turns.
type Ctx struct {
	Project    string // canonical project key, "" when none selected
	Category   string // under_construction | ready_to_move | completed | ""
	Attribute  string // price | config | floors | towers | ""
	LastIntent string
	Lang       string
	Greeted    bool
	Handoff    bool
}

// Router turns normalized utterances into replies against a fact sheet.
// Safe for sequential use; the Ctx is mutated in place each turn.
type Router struct {
	facts *Facts
}

// NewRouter creates a router over facts.
func NewRouter(facts *Facts) *Router {
	return &Router{facts: facts}
}

func normLang(lang string) string {
	if lang == "hi" {
		return "hi"
	}
	return "en"
}

// Route handles one user turn. The flow is layered navigation: category
// -> project -> attribute. Picking a category clears the project,
// switching project or category resets the attribute, and "back" moves
// up one layer.
func (r *Router) Route(text, lang string, ctx *Ctx) string {
	L := normLang(lang)
	ctx.Lang = L

	detectedProj := DetectProject(text)
	detectedCat := DetectCategory(text)
	detectedAttr := DetectAttribute(text)

	intent := classifyIntent(text)
	ctx.LastIntent = intent

	if intent == "go_back" {
		return r.goBack(ctx, L)
	}

	prevProj, prevCat := ctx.Project, ctx.Category
	if detectedProj != "" {
		if detectedProj != prevProj {
			ctx.Attribute = ""
		}
		ctx.Project = detectedProj
		if cat := r.facts.CategoryOf(detectedProj); cat != "" {
			ctx.Category = cat
		}
	}
	if detectedCat != "" {
		if detectedCat != prevCat {
			ctx.Attribute = ""
		}
		ctx.Category = detectedCat
		ctx.Project = "" // moving up a layer clears the project
	}
	if detectedAttr != "" {
		ctx.Attribute = detectedAttr
	}

	if !ctx.Greeted || intent == "greet" {
		ctx.Greeted = true
		return tmpl("greet", L)
	}

	switch intent {
	case "whatsapp_details":
		return fmt.Sprintf(tmpl("whatsapp", L), r.facts.Phone)
	case "connect_representative":
		ctx.Handoff = true
		return tmpl("handoff", L)
	}

	if intent == "ask_projects" || detectedCat != "" {
		ctx.Project = ""
		if ctx.Category != "" && ctx.Attribute != "" {
			if items := r.facts.Categories[ctx.Category]; len(items) > 0 {
				return fmt.Sprintf(tmpl("ask_project_for_attr", L),
					attrLabel(ctx.Attribute, L), categoryLabel(ctx.Category, L), r.facts.prettyList(items))
			}
		}
		if ctx.Category != "" {
			if items := r.facts.Categories[ctx.Category]; len(items) > 0 {
				return r.listProjects(ctx.Category, L)
			}
		}
		return tmpl("ask_category", L)
	}

	if ctx.Project != "" {
		if ctx.Attribute != "" {
			if ans := r.attrAnswer(ctx.Project, ctx.Attribute, L); ans != "" {
				return ans
			}
		}
		return r.projectDetails(ctx.Project, L)
	}

	if ctx.Category != "" {
		if items := r.facts.Categories[ctx.Category]; len(items) > 0 {
			return r.listProjects(ctx.Category, L)
		}
		return tmpl("ask_attribute", L)
	}

	if ctx.Attribute != "" {
		return tmpl("ask_category", L)
	}

	return tmpl("fallback", L)
}

// goBack navigates up one layer: project -> category list -> category
// prompt. The attribute survives a "back" so a follow-up project pick
// answers the same question.
func (r *Router) goBack(ctx *Ctx, L string) string {
	if ctx.Project != "" {
		ctx.Project = ""
	}
	if ctx.Category != "" {
		if items := r.facts.Categories[ctx.Category]; len(items) > 0 {
			return r.listProjects(ctx.Category, L)
		}
	}
	return tmpl("ask_category", L)
}

func (r *Router) listProjects(cat, L string) string {
	items := r.facts.Categories[cat]
	return fmt.Sprintf(tmpl("list_projects", L), categoryLabel(cat, L), r.facts.prettyList(items))
}

func (r *Router) projectDetails(key, L string) string {
	p := r.facts.Projects[key]
	return fmt.Sprintf(tmpl("proj_details", L),
		r.facts.DisplayName(key), orDash(p.Config), orDash(p.Price), orDash(p.Floors), orDash(p.Towers))
}

func (r *Router) attrAnswer(key, attr, L string) string {
	p, ok := r.facts.Projects[key]
	if !ok {
		return ""
	}
	value := p.Attribute(attr)
	if value == "" {
		return ""
	}
	return fmt.Sprintf(tmpl("attr_answer", L), r.facts.DisplayName(key), attrLabel(attr, L), value)
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
