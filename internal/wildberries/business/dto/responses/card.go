package responses

// CardResponse — документ card.json с шарда basket-NN.
type CardResponse struct {
	NmID         int          `json:"nm_id"`
	VendorCode   string       `json:"vendor_code"`
	SubjName     string       `json:"subj_name"`
	SubjRootName string       `json:"subj_root_name"`
	ImtName      string       `json:"imt_name"`
	Description  string       `json:"description"`
	Options      []CardOption `json:"options"`
}

type CardOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}
