package sdk

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/everFinance/dynft/schema"
	"gopkg.in/h2non/gentleman.v2"
	"gopkg.in/h2non/gentleman.v2/plugins/body"
	"gopkg.in/h2non/gentleman.v2/plugins/multipart"
)

// DynftCli talks to a running dynft service over its http api.
type DynftCli struct {
	SCli *gentleman.Client
}

func New(dynftUrl string) *DynftCli {
	return &DynftCli{
		SCli: gentleman.New().URL(dynftUrl),
	}
}

func (d *DynftCli) CreateCollection(name, symbol, description string) (schema.Collection, error) {
	req := d.SCli.Post()
	req.AddPath("/collection")
	req.Use(body.JSON(schema.CreateCollectionReq{
		Name:        name,
		Symbol:      symbol,
		Description: description,
	}))
	resp, err := req.Send()
	if err != nil {
		return schema.Collection{}, err
	}
	defer resp.Close()
	if !resp.Ok {
		return schema.Collection{}, errors.New(fmt.Sprintf("resp failed: %s", resp.String()))
	}
	coll := schema.Collection{}
	err = resp.JSON(&coll)
	return coll, err
}

func (d *DynftCli) GetCollection(collectionId string) (schema.Collection, error) {
	req := d.SCli.Get()
	req.AddPath(fmt.Sprintf("/collection/%s", collectionId))
	resp, err := req.Send()
	if err != nil {
		return schema.Collection{}, err
	}
	defer resp.Close()
	if !resp.Ok {
		return schema.Collection{}, errors.New(fmt.Sprintf("resp failed: %s", resp.String()))
	}
	coll := schema.Collection{}
	err = resp.JSON(&coll)
	return coll, err
}

func (d *DynftCli) ListAssets(collectionId string) ([]schema.NftInfo, error) {
	req := d.SCli.Get()
	req.AddPath(fmt.Sprintf("/collection/%s/assets", collectionId))
	resp, err := req.Send()
	if err != nil {
		return nil, err
	}
	defer resp.Close()
	if !resp.Ok {
		return nil, errors.New(fmt.Sprintf("resp failed: %s", resp.String()))
	}
	nfts := make([]schema.NftInfo, 0)
	err = resp.JSON(&nfts)
	return nfts, err
}

// MintNft returns the new nft id, "collectionId:serialNumber".
func (d *DynftCli) MintNft(collectionId string, mintReq schema.CreateNftReq) (string, error) {
	req := d.SCli.Post()
	req.AddPath(fmt.Sprintf("/nft/%s", collectionId))
	req.Use(body.JSON(mintReq))
	resp, err := req.Send()
	if err != nil {
		return "", err
	}
	defer resp.Close()
	if !resp.Ok {
		return "", errors.New(fmt.Sprintf("resp failed: %s", resp.String()))
	}
	nftId := ""
	err = resp.JSON(&nftId)
	return nftId, err
}

func (d *DynftCli) GetNft(nftId string) (schema.NftInfo, error) {
	req := d.SCli.Get()
	req.AddPath(fmt.Sprintf("/nft/%s", nftId))
	resp, err := req.Send()
	if err != nil {
		return schema.NftInfo{}, err
	}
	defer resp.Close()
	if !resp.Ok {
		return schema.NftInfo{}, errors.New(fmt.Sprintf("resp failed: %s", resp.String()))
	}
	info := schema.NftInfo{}
	err = resp.JSON(&info)
	return info, err
}

func (d *DynftCli) GetHistory(nftId string) ([]schema.Event, error) {
	req := d.SCli.Get()
	req.AddPath(fmt.Sprintf("/nft/%s/history", nftId))
	resp, err := req.Send()
	if err != nil {
		return nil, err
	}
	defer resp.Close()
	if !resp.Ok {
		return nil, errors.New(fmt.Sprintf("resp failed: %s", resp.String()))
	}
	events := make([]schema.Event, 0)
	err = resp.JSON(&events)
	return events, err
}

func (d *DynftCli) WriteEvent(nftId string, eventReq schema.WriteEventReq) (schema.Event, error) {
	req := d.SCli.Post()
	req.AddPath(fmt.Sprintf("/nft/%s/event", nftId))
	req.Use(body.JSON(eventReq))
	resp, err := req.Send()
	if err != nil {
		return schema.Event{}, err
	}
	defer resp.Close()
	if !resp.Ok {
		return schema.Event{}, errors.New(fmt.Sprintf("resp failed: %s", resp.String()))
	}
	event := schema.Event{}
	err = resp.JSON(&event)
	return event, err
}

func (d *DynftCli) UploadImage(data []byte) (string, error) {
	req := d.SCli.Post()
	req.AddPath("/ipfs/upload")
	req.Use(multipart.File("file", bytes.NewReader(data)))
	resp, err := req.Send()
	if err != nil {
		return "", err
	}
	defer resp.Close()
	if !resp.Ok {
		return "", errors.New(fmt.Sprintf("resp failed: %s", resp.String()))
	}
	up := schema.RespUpload{}
	err = resp.JSON(&up)
	return up.Handle, err
}

func (d *DynftCli) GetImage(cid string) ([]byte, error) {
	req := d.SCli.Get()
	req.AddPath(fmt.Sprintf("/ipfs/%s", cid))
	resp, err := req.Send()
	if err != nil {
		return nil, err
	}
	defer resp.Close()
	if !resp.Ok {
		return nil, errors.New(fmt.Sprintf("resp failed: %s", resp.String()))
	}
	return resp.Bytes(), nil
}
