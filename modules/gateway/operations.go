package gateway

import "net/http"

// DefaultBaseURL is the production agents gateway.
const DefaultBaseURL = "https://api.nequi.com/agents/v2"

// Location says where a bound parameter goes on the request.
type Location string

const (
	InHeader Location = "header"
	InQuery  Location = "query"
)

// Binding maps a named call parameter onto the request.
type Binding struct {
	Name string
	In   Location
}

// Operation describes one gateway endpoint. The package keeps its own table;
// Operations and LookupOperation hand out copies, so callers may modify what
// they get without affecting the client.
type Operation struct {
	Name        string
	Path        string
	Method      string
	Bindings    []Binding
	HasBody     bool // request carries a JSON body
	ReturnsJSON bool // response must be valid JSON; otherwise returned raw
}

// Clone returns a copy of o that shares no memory with it.
func (o Operation) Clone() Operation {
	o.Bindings = append([]Binding(nil), o.Bindings...)
	return o
}

func authorizationHeader() []Binding {
	return []Binding{{Name: "Authorization", In: InHeader}}
}

func jsonPost(name, path string) Operation {
	return Operation{
		Name:        name,
		Path:        path,
		Method:      http.MethodPost,
		Bindings:    authorizationHeader(),
		HasBody:     true,
		ReturnsJSON: true,
	}
}

var (
	opCashIn             = jsonPost("cashIn", "/-services-cashinservice-cashin")
	opCashOut            = jsonPost("cashOut", "/-services-cashoutservice-cashout")
	opCashOutConsult     = jsonPost("cashOutConsult", "/-services-cashoutservice-cashoutconsult")
	opValidateClient     = jsonPost("validateClient", "/-services-clientservice-validateclient")
	opReverseTransaction = jsonPost("reverseTransaction", "/-services-reverseservices-reversetransaction")
	opGetPublicKey       = Operation{
		Name:     "getPublicKey",
		Path:     "/-services-keysservice-getpublic",
		Method:   http.MethodPost,
		Bindings: authorizationHeader(),
	}
)

var operations = []Operation{
	opCashIn,
	opCashOut,
	opCashOutConsult,
	opValidateClient,
	opReverseTransaction,
	opGetPublicKey,
}

// Operations returns every known operation, keyed by name.
func Operations() map[string]Operation {
	out := make(map[string]Operation, len(operations))
	for _, op := range operations {
		out[op.Name] = op.Clone()
	}
	return out
}

// LookupOperation returns the operation called name.
func LookupOperation(name string) (Operation, bool) {
	for _, op := range operations {
		if op.Name == name {
			return op.Clone(), true
		}
	}
	return Operation{}, false
}
