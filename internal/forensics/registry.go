// Package forensics turns unstructured text (search snippets, email bodies,
// logs) into a deduplicated set of forensic indicators.
//
// Patterns are grouped into precedence tiers. Lower tiers run first and claim
// the spans they match; looser patterns in higher tiers discard candidates
// that overlap a claimed span. This replaces the older accumulate-everything
// behavior where e.g. the domain of a matched e-mail address was reported a
// second time as a standalone domain finding.
package forensics

import (
	"fmt"
	"regexp"
	"sort"
)

// Pattern is one entry of the indicator registry: a kind identifier, a
// compiled matcher, a display label and a precedence tier.
type Pattern struct {
	Kind    string
	Label   string
	Tier    int
	Matcher *regexp.Regexp
}

// Registry is an ordered collection of indicator patterns. It is built once
// at startup and never mutated afterwards, so it is safe for concurrent use
// by any number of extraction calls.
type Registry struct {
	patterns []Pattern
	kinds    map[string]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{kinds: make(map[string]struct{})}
}

// Register compiles expr and appends the pattern. It fails on a duplicate
// kind or a malformed expression; both are configuration errors, not runtime
// conditions.
func (r *Registry) Register(kind, expr, label string, tier int) error {
	if _, dup := r.kinds[kind]; dup {
		return fmt.Errorf("duplicate indicator kind %q", kind)
	}
	matcher, err := regexp.Compile(expr)
	if err != nil {
		return fmt.Errorf("indicator %q: invalid pattern: %w", kind, err)
	}
	r.kinds[kind] = struct{}{}
	r.patterns = append(r.patterns, Pattern{Kind: kind, Label: label, Tier: tier, Matcher: matcher})
	return nil
}

// All returns the patterns sorted by tier, preserving registration order
// within a tier.
func (r *Registry) All() []Pattern {
	out := make([]Pattern, len(r.patterns))
	copy(out, r.patterns)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Tier < out[j].Tier })
	return out
}

// Len returns the number of registered patterns.
func (r *Registry) Len() int { return len(r.patterns) }

// Label returns the display label for a kind, or the kind itself when it is
// not registered.
func (r *Registry) Label(kind string) string {
	for _, p := range r.patterns {
		if p.Kind == kind {
			return p.Label
		}
	}
	return kind
}

// builtinPatterns is the fixed indicator table. Tier 0 holds structured
// tokens with an unambiguous shape; tier 1 and 2 hold progressively looser
// patterns whose candidates are masked by lower-tier matches.
var builtinPatterns = []struct {
	kind  string
	expr  string
	label string
	tier  int
}{
	// -- Tier 0: structured tokens --
	{"url", `https?://(?:[-\w.]|(?:%[\da-fA-F]{2}))+(?:/[^\s<>"']*)?`, "URLs", 0},
	{"email", `[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`, "E-mails", 0},
	{"cidr", `\b(?:\d{1,3}\.){3}\d{1,3}/\d{1,2}\b`, "Blocos CIDR", 0},
	{"ipv6", `\b(?:[A-Fa-f0-9]{1,4}:){7}[A-Fa-f0-9]{1,4}\b`, "Endereços IPv6", 0},
	{"mac", `\b(?:[0-9A-Fa-f]{2}[:-]){5}(?:[0-9A-Fa-f]{2})\b`, "Endereços MAC", 0},
	{"mac_cisco", `\b(?:[0-9A-Fa-f]{4}\.){2}[0-9A-Fa-f]{4}\b`, "Endereços MAC (Cisco)", 0},
	{"sha512", `\b[a-fA-F0-9]{128}\b`, "Hashes SHA512", 0},
	{"sha256", `\b[a-fA-F0-9]{64}\b`, "Hashes SHA256", 0},
	{"sha1", `\b[a-fA-F0-9]{40}\b`, "Hashes SHA1", 0},
	{"md5", `\b[a-fA-F0-9]{32}\b`, "Hashes MD5", 0},
	{"uuid", `\b[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}\b`, "UUIDs", 0},
	{"cve", `\bCVE-\d{4}-\d{4,7}\b`, "IDs CVE", 0},
	{"jwt", `\beyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\b`, "Tokens JWT", 0},
	{"private_key", `-----BEGIN (?:RSA |EC |OPENSSH |DSA )?PRIVATE KEY-----`, "Chaves Privadas", 0},
	{"pgp_block", `-----BEGIN PGP (?:MESSAGE|PRIVATE KEY BLOCK|PUBLIC KEY BLOCK)-----`, "Blocos PGP", 0},
	{"ssh_pubkey", `\bssh-(?:rsa|ed25519|dss) [A-Za-z0-9+/=]+`, "Chaves Públicas SSH", 0},
	{"aws_access_key", `\b(?:AKIA|ASIA)[0-9A-Z]{16}\b`, "Chaves de Acesso AWS", 0},
	{"google_api_key", `\bAIza[0-9A-Za-z_-]{35}\b`, "Chaves de API Google", 0},
	{"slack_token", `\bxox[baprs]-[0-9A-Za-z-]{10,60}\b`, "Tokens Slack", 0},
	{"github_token", `\bghp_[A-Za-z0-9]{36}\b`, "Tokens GitHub", 0},
	{"stripe_key", `\b[sp]k_(?:live|test)_[A-Za-z0-9]{16,}\b`, "Chaves Stripe", 0},
	{"sendgrid_key", `\bSG\.[A-Za-z0-9_-]{22}\.[A-Za-z0-9_-]{43}\b`, "Chaves SendGrid", 0},
	{"bearer_token", `\bBearer [A-Za-z0-9._~+/-]+=*`, "Tokens Bearer", 0},
	{"basic_auth", `\bBasic [A-Za-z0-9+/=]{8,}`, "Credenciais Basic", 0},
	{"onion", `\b[a-z2-7]{16,56}\.onion\b`, "Endereços Onion", 0},
	{"btc", `\b(?:[13][a-km-zA-HJ-NP-Z1-9]{25,34}|bc1[a-z0-9]{39,59})\b`, "Carteiras Bitcoin", 0},
	{"eth", `\b0x[a-fA-F0-9]{40}\b`, "Carteiras Ethereum", 0},
	{"xmr", `\b4[0-9AB][1-9A-HJ-NP-Za-km-z]{93}\b`, "Carteiras Monero", 0},
	{"iban", `\b[A-Z]{2}\d{2}[A-Z0-9]{11,30}\b`, "IBANs", 0},
	{"credit_card", `\b(?:4\d{3}|5[1-5]\d{2}|3[47]\d{2}|6011)[ -]?\d{4}[ -]?\d{4}[ -]?\d{2,4}\b`, "Cartões de Crédito", 0},
	{"ssn", `\b\d{3}-\d{2}-\d{4}\b`, "SSNs", 0},
	{"cpf", `\b\d{3}\.\d{3}\.\d{3}-\d{2}\b`, "CPFs", 0},
	{"cnpj", `\b\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2}\b`, "CNPJs", 0},
	{"coordinates", `\b-?\d{1,3}\.\d{3,},\s*-?\d{1,3}\.\d{3,}\b`, "Coordenadas", 0},
	{"registry_key", `\bHK(?:LM|CU|CR|U|CC)\\[\w\\]+`, "Chaves de Registro", 0},
	{"windows_path", `\b[A-Za-z]:\\(?:[^\\/:*?"<>|\s]+\\)*[^\\/:*?"<>|\s]+`, "Caminhos Windows", 0},
	{"user_agent", `Mozilla/\d\.\d \([^)]*\)[^\n"']*`, "User Agents", 0},
	{"password_assign", `(?i)\b(?:password|passwd|pwd|senha)\s*[:=]\s*\S+`, "Senhas Expostas", 0},

	// -- Tier 1: masked by tier 0 (e.g. the host part of a CIDR block) --
	{"ip", `\b(?:\d{1,3}\.){3}\d{1,3}\b`, "Endereços IPv4", 1},
	{"phone", `\+?\d[\d\s()-]{7,}\d`, "Telefones", 1},

	// -- Tier 2: loose patterns, masked by everything above --
	{"domain", `\b(?:[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?\.)+(?:com|net|org|io|gov|edu|mil|info|biz|co|me|ru|cn|br|uk|de|fr)\b`, "Domínios", 2},
	{"unix_path", `(?:/[\w.-]+){2,}`, "Caminhos Unix", 2},
	{"base64_blob", `\b[A-Za-z0-9+/]{40,}={0,2}\b`, "Blobs Base64", 2},
}

var builtinLabels = func() map[string]string {
	m := make(map[string]string, len(builtinPatterns))
	for _, p := range builtinPatterns {
		m[p.kind] = p.label
	}
	return m
}()

// KindLabel returns the display label of a builtin indicator kind, or the
// kind itself when it is not a builtin.
func KindLabel(kind string) string {
	if label, ok := builtinLabels[kind]; ok {
		return label
	}
	return kind
}

// MustBuiltin builds the full builtin registry, panicking on any malformed
// entry. A broken builtin table is a programming error caught at startup.
func MustBuiltin() *Registry {
	r := NewRegistry()
	for _, p := range builtinPatterns {
		if err := r.Register(p.kind, p.expr, p.label, p.tier); err != nil {
			panic(fmt.Sprintf("forensics: builtin registry: %v", err))
		}
	}
	return r
}
