package dynft

import (
	"bytes"
	"fmt"

	"github.com/tidwall/gjson"
	"gopkg.in/h2non/gentleman.v2"
	"gopkg.in/h2non/gentleman.v2/plugins/multipart"
)

const (
	pinataBaseUrl    = "https://api.pinata.cloud"
	pinataGatewayUrl = "https://gateway.pinata.cloud"
)

// PinataClient is the pass-through to the image pinning service; image bytes
// never touch the NFT state model.
type PinataClient struct {
	api     *gentleman.Client
	gateway *gentleman.Client
}

func NewPinataClient(apiKey, secretKey string) *PinataClient {
	api := gentleman.New().URL(pinataBaseUrl)
	api.SetHeader("pinata_api_key", apiKey)
	api.SetHeader("pinata_secret_api_key", secretKey)
	return &PinataClient{
		api:     api,
		gateway: gentleman.New().URL(pinataGatewayUrl),
	}
}

func (p *PinataClient) UploadImage(data []byte) (string, error) {
	req := p.api.Post()
	req.AddPath("/pinning/pinFileToIPFS")
	req.Use(multipart.File("file", bytes.NewReader(data)))
	resp, err := req.Send()
	if err != nil {
		return "", err
	}
	defer resp.Close()
	if !resp.Ok {
		return "", fmt.Errorf("pinata resp failed: %s", resp.String())
	}
	return gjson.GetBytes(resp.Bytes(), "IpfsHash").String(), nil
}

func (p *PinataClient) GetImage(cid string) ([]byte, error) {
	req := p.gateway.Get()
	req.AddPath("/ipfs/" + cid)
	resp, err := req.Send()
	if err != nil {
		return nil, err
	}
	defer resp.Close()
	if !resp.Ok {
		return nil, fmt.Errorf("pinata gateway resp failed: %s", resp.String())
	}
	return resp.Bytes(), nil
}
