package engines

import (
	"github.com/leagravellard/Projet-GENAI/components/vectordb/engines/chromem"
	"github.com/leagravellard/Projet-GENAI/components/vectordb/engines/memory"
	"github.com/leagravellard/Projet-GENAI/components/vectordb/engines/milvus"
)

var (
	FromChromem = chromem.New
	FromMemory  = memory.New
	FromMilvus  = milvus.New
)
