package schema

type KafkaMintInfo struct {
	NftId        string `json:"nftId"`
	CollectionId string `json:"collectionId"`
	SerialNumber string `json:"serialNumber"`
	BlobHandle   string `json:"blobHandle"`
	LogHandle    string `json:"logHandle"`
	Name         string `json:"name"`
}

type KafkaEventInfo struct {
	NftId     string `json:"nftId"`
	LogHandle string `json:"logHandle"`
	Name      string `json:"name"`
	Timestamp string `json:"timestamp"`
}
