package cmd

import "github.com/spf13/viper"

func settingDefaultConfig() {
	// Enable automatic environment variable binding
	viper.AutomaticEnv()

	// Map environment variables to Viper keys for paths and storage
	viper.BindEnv("data.dir", "LOCALMIND_DATA_DIR")
	viper.BindEnv("documents.dir", "LOCALMIND_DOCUMENTS_DIR")
	viper.BindEnv("chroma.url", "LOCALMIND_CHROMA_URL")
	viper.BindEnv("chroma.collection", "LOCALMIND_COLLECTION")

	// Map environment variables to Viper keys for models and Ollama
	viper.BindEnv("models.embedding", "LOCALMIND_EMBEDDING_MODEL")
	viper.BindEnv("models.chat", "LOCALMIND_CHAT_MODEL")
	viper.BindEnv("ollama.url", "OLLAMA_HOST")

	// Map environment variables to Viper keys for chunking and retrieval
	viper.BindEnv("chunk.size", "LOCALMIND_CHUNK_SIZE")
	viper.BindEnv("chunk.overlap", "LOCALMIND_CHUNK_OVERLAP")
	viper.BindEnv("retrieval.top_k", "LOCALMIND_TOP_K")

	// Map environment variables to Viper keys for the server and PDF license
	viper.BindEnv("server.port", "LOCALMIND_SERVER_PORT")
	viper.BindEnv("server.shutdown_timeout", "LOCALMIND_SERVER_SHUTDOWN_TIMEOUT")
	viper.BindEnv("unidoc.license_key", "UNIDOC_LICENSE_KEY")

	// Set default values for paths and storage
	viper.SetDefault("data.dir", "./data")
	viper.SetDefault("documents.dir", "./data/documents")
	viper.SetDefault("chroma.url", "http://localhost:8000")
	viper.SetDefault("chroma.collection", "localmind_docs")

	// Set default values for models and Ollama
	viper.SetDefault("models.embedding", "nomic-embed-text")
	viper.SetDefault("models.chat", "llama3.1:8b")
	viper.SetDefault("ollama.url", "http://localhost:11434")

	// Set default values for chunking and retrieval
	viper.SetDefault("chunk.size", 1024)
	viper.SetDefault("chunk.overlap", 200)
	viper.SetDefault("retrieval.top_k", 5)

	// Set default values for the server
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.shutdown_timeout", "5s")
}
