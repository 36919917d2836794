package schema

type CreateCollectionReq struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
}

func (r CreateCollectionReq) Validate() error {
	if r.Name == "" || r.Symbol == "" || r.Description == "" {
		return ErrNullData
	}
	return nil
}

type CreateNftReq struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Attributes  []Attribute `json:"attributes"`
	Image       string      `json:"image,omitempty"`
}

func (r CreateNftReq) Envelope() Envelope {
	return Envelope{
		Name:        r.Name,
		Description: r.Description,
		Attributes:  r.Attributes,
		Image:       r.Image,
	}
}

type WriteEventReq struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Attributes  map[string]interface{} `json:"attributes,omitempty"`
}

func (r WriteEventReq) Validate() error {
	if r.Name == "" || r.Description == "" {
		return ErrNullData
	}
	return nil
}

type RespErr struct {
	Err string `json:"error"`
}

func (r RespErr) Error() string {
	return r.Err
}

type RespUpload struct {
	Handle string `json:"handle"`
}
