package dynft

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/everFinance/dynft/common"
	"github.com/everFinance/dynft/schema"
	"github.com/gin-gonic/gin"
)

func (s *Dynft) runAPI(port string) {
	r := s.engine
	r.Use(common.CORSMiddleware())
	r.Use(common.RequestIdMiddleware())
	r.Use(common.LimiterMiddleware(600, "M", nil))
	common.NewMetricServer()

	v1 := r.Group("/")
	{
		// collection api
		v1.POST("/collection", s.createCollection)
		v1.GET("/collection/:id", s.getCollection)
		v1.GET("/collection/:id/assets", s.listCollectionAssets)

		// nft api
		v1.POST("/nft/:id", s.mintNft)
		v1.GET("/nft/:id", s.getNft)
		v1.GET("/nft/:id/history", s.getNftHistory)
		v1.POST("/nft/:id/event", s.writeNftEvent)

		// image pass-through
		v1.POST("/ipfs/upload", s.uploadImage)
		v1.GET("/ipfs/:cid", s.getImage)
	}

	if err := r.Run(port); err != nil {
		panic(err)
	}
}

func (s *Dynft) createCollection(c *gin.Context) {
	req := schema.CreateCollectionReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		errorResponse(c, err.Error())
		return
	}
	coll, err := s.collections.Create(c.Request.Context(), req.Name, req.Symbol, req.Description)
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusCreated, coll)
}

func (s *Dynft) getCollection(c *gin.Context) {
	coll, err := s.collections.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		notFoundResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, coll)
}

func (s *Dynft) listCollectionAssets(c *gin.Context) {
	nfts, err := s.collections.ListAssets(c.Request.Context(), c.Param("id"))
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, nfts)
}

func (s *Dynft) mintNft(c *gin.Context) {
	collectionId := c.Param("id")
	req := schema.CreateNftReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	envelope := req.Envelope()
	if err := envelope.Validate(); err != nil {
		errorResponse(c, err.Error())
		return
	}

	receipt, err := s.nftEngine.Mint(c.Request.Context(), collectionId, envelope)
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}

	// accounting and downstream notification are best-effort
	s.recordMint(receipt)

	c.JSON(http.StatusCreated, receipt.NftId)
}

func (s *Dynft) getNft(c *gin.Context) {
	info, err := s.nftEngine.GetInfo(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, schema.ErrInvalidNftId):
			errorResponse(c, err.Error())
		case errors.Is(err, schema.ErrNotFound):
			notFoundResponse(c, err.Error())
		default:
			internalErrorResponse(c, err.Error())
		}
		return
	}
	c.JSON(http.StatusOK, info)
}

func (s *Dynft) getNftHistory(c *gin.Context) {
	events, err := s.nftEngine.GetHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, schema.ErrInvalidNftId), errors.Is(err, schema.ErrMissingLogHandle):
			errorResponse(c, err.Error())
		case errors.Is(err, schema.ErrNotFound):
			notFoundResponse(c, err.Error())
		default:
			internalErrorResponse(c, err.Error())
		}
		return
	}
	c.JSON(http.StatusOK, events)
}

func (s *Dynft) writeNftEvent(c *gin.Context) {
	rawId := c.Param("id")
	req := schema.WriteEventReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}

	event, err := s.nftEngine.WriteEvent(c.Request.Context(), rawId, req)
	if err != nil {
		switch {
		case errors.Is(err, schema.ErrInvalidNftId), errors.Is(err, schema.ErrNullData), errors.Is(err, schema.ErrMissingLogHandle):
			errorResponse(c, err.Error())
		case errors.Is(err, schema.ErrNotFound):
			notFoundResponse(c, err.Error())
		default:
			internalErrorResponse(c, err.Error())
		}
		return
	}

	s.recordEvent(rawId, event)

	c.JSON(http.StatusOK, event)
}

func (s *Dynft) uploadImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	f, err := file.Open()
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	if len(data) == 0 {
		errorResponse(c, schema.ErrNullData.Error())
		return
	}

	cid, err := s.pinata.UploadImage(data)
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, schema.RespUpload{Handle: cid})
}

func (s *Dynft) getImage(c *gin.Context) {
	data, err := s.pinata.GetImage(c.Param("cid"))
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.Data(http.StatusOK, http.DetectContentType(data), data)
}

func (s *Dynft) recordMint(receipt MintReceipt) {
	attrs, _ := json.Marshal(receipt.Envelope.Attributes)
	if err := s.wdb.InsertMint(schema.MintRecord{
		NftId:        receipt.NftId,
		CollectionId: receipt.CollectionId,
		SerialNumber: receipt.SerialNumber,
		BlobHandle:   receipt.BlobHandle,
		LogHandle:    receipt.LogHandle,
		Name:         receipt.Envelope.Name,
		Attributes:   attrs,
	}); err != nil {
		log.Error("insert mint record", "nft", receipt.NftId, "err", err)
	}

	if kw, ok := s.kwriters[MintTopic]; ok {
		body, _ := json.Marshal(schema.KafkaMintInfo{
			NftId:        receipt.NftId,
			CollectionId: receipt.CollectionId,
			SerialNumber: receipt.SerialNumber,
			BlobHandle:   receipt.BlobHandle,
			LogHandle:    receipt.LogHandle,
			Name:         receipt.Envelope.Name,
		})
		if err := kw.Write(body); err != nil {
			log.Error("publish mint info", "nft", receipt.NftId, "err", err)
		}
	}
}

func (s *Dynft) recordEvent(rawId string, event schema.Event) {
	id, err := schema.ParseNftId(rawId)
	if err != nil {
		return
	}
	logHandle := ""
	if event.UpdatedMetadata != nil {
		logHandle = event.UpdatedMetadata.EventLogHandle
	}

	payload, _ := json.Marshal(&event)
	if err := s.wdb.InsertEvent(schema.EventRecord{
		CreatedAt:    time.Now().UTC(),
		NftId:        rawId,
		CollectionId: id.CollectionId,
		LogHandle:    logHandle,
		Name:         event.Name,
		Payload:      payload,
	}); err != nil {
		log.Error("insert event record", "nft", rawId, "err", err)
	}

	if kw, ok := s.kwriters[EventTopic]; ok {
		body, _ := json.Marshal(schema.KafkaEventInfo{
			NftId:     rawId,
			LogHandle: logHandle,
			Name:      event.Name,
			Timestamp: event.Timestamp,
		})
		if err := kw.Write(body); err != nil {
			log.Error("publish event info", "nft", rawId, "err", err)
		}
	}
}

func errorResponse(c *gin.Context, err string) {
	// client error
	c.JSON(http.StatusBadRequest, schema.RespErr{
		Err: err,
	})
}

func notFoundResponse(c *gin.Context, err string) {
	c.JSON(http.StatusNotFound, schema.RespErr{
		Err: err,
	})
}

func internalErrorResponse(c *gin.Context, err string) {
	c.JSON(http.StatusInternalServerError, schema.RespErr{
		Err: err,
	})
}
