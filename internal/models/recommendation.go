package models

// Priority prioridade de uma seção recomendada
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Valid indica se a prioridade pertence ao conjunto conhecido
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// PriorityForRatio converte uma razão de engajamento em prioridade
func PriorityForRatio(ratio float64) Priority {
	switch {
	case ratio > 0.3:
		return PriorityHigh
	case ratio > 0.1:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// AuthState estado de autenticação ao qual a recomendação se refere
type AuthState string

const (
	AuthStateAuthenticated AuthState = "authenticated"
	AuthStateAnonymous     AuthState = "anonymous"
)

// AuthStateFor retorna o AuthState correspondente ao flag de autenticação
func AuthStateFor(authenticated bool) AuthState {
	if authenticated {
		return AuthStateAuthenticated
	}
	return AuthStateAnonymous
}

// AnonymousUserID chave usada para usuários não identificados
const AnonymousUserID = "anonymous"

// CacheKey retorna a chave de cache para o usuário informado
func CacheKey(userID string) string {
	if userID == "" {
		return AnonymousUserID
	}
	return userID
}

// IsAnonymous indica se o userID não identifica um usuário
func IsAnonymous(userID string) bool {
	return userID == "" || userID == AnonymousUserID
}

// UserIDPtr converte o userID para a coluna user_id (nulo para anônimos)
func UserIDPtr(userID string) *string {
	if IsAnonymous(userID) {
		return nil
	}
	return &userID
}

// TopSection seção priorizada pela recomendação
type TopSection struct {
	Identifier string   `json:"identifier"`
	Priority   Priority `json:"priority"`
	Reasoning  string   `json:"reasoning"`
	Count      int      `json:"count,omitempty"`
	Ratio      float64  `json:"ratio,omitempty"`
}

// UICustomizations ajustes visuais sugeridos
type UICustomizations struct {
	ColorTheme string   `json:"colorTheme"`
	FontSizes  string   `json:"fontSizes"`
	Spacing    string   `json:"spacing"`
	Emphasis   []string `json:"emphasis"`
	Deemphasis []string `json:"deemphasis"`
}

// LayoutPreferences preferências de layout sugeridas
type LayoutPreferences struct {
	ContentDensity  string   `json:"contentDensity"`
	NavigationStyle string   `json:"navigationStyle"`
	FeaturedContent []string `json:"featuredContent"`
	ContentGrouping string   `json:"contentGrouping"`
}

// UserJourney próximos passos sugeridos para o usuário
type UserJourney struct {
	SuggestedNextPages   []string  `json:"suggestedNextPages"`
	CallToActionEmphasis string    `json:"callToActionEmphasis"`
	PersonalizedGreeting string    `json:"personalizedGreeting"`
	AuthState            AuthState `json:"authState"`
}

// Payload recomendação completa de personalização
type Payload struct {
	TopSections       []TopSection      `json:"topSections"`
	UICustomizations  UICustomizations  `json:"uiCustomizations"`
	LayoutPreferences LayoutPreferences `json:"layoutPreferences"`
	UserJourney       UserJourney       `json:"userJourney"`
}

// MatchesAuth indica se o payload foi gerado para o estado de autenticação informado
func (p *Payload) MatchesAuth(authenticated bool) bool {
	return p != nil && p.UserJourney.AuthState == AuthStateFor(authenticated)
}

// Clone retorna uma cópia profunda do payload
func (p *Payload) Clone() *Payload {
	if p == nil {
		return nil
	}
	c := *p
	c.TopSections = append([]TopSection(nil), p.TopSections...)
	c.UICustomizations.Emphasis = cloneStrings(p.UICustomizations.Emphasis)
	c.UICustomizations.Deemphasis = cloneStrings(p.UICustomizations.Deemphasis)
	c.LayoutPreferences.FeaturedContent = cloneStrings(p.LayoutPreferences.FeaturedContent)
	c.UserJourney.SuggestedNextPages = cloneStrings(p.UserJourney.SuggestedNextPages)
	return &c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string{}, s...)
}
