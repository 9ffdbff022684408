// Package googleai provides the Gemini implementation of ai.AIProvider.
//
// It wraps langchaingo's Google AI client. The API key comes from
// ai.Config.APIKey, normally loaded from GOOGLE_GENAI_API_KEY.
//
//	cfg, err := ai.LoadConfig(".env")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	provider, err := googleai.NewProvider(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	text, err := provider.Generator().GenerateText(ctx, "Hello")
package googleai
