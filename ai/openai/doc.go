// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package openai provides an ai.AIProvider for OpenAI-compatible APIs.
//
// This package uses the langchaingo library to talk to OpenAI or to local
// OpenAI-compatible servers such as Ollama, LocalAI, or vLLM. It is the
// alternative to the default Gemini backend.
//
// # Usage
//
//	config := ai.NewConfig(
//	    ai.WithBackend(ai.BackendOpenAI),
//	    ai.WithHost("http://localhost:11434"), // /v1 added automatically
//	    ai.WithModel("qwen2.5:7b"),
//	)
//
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	text, err := provider.Generator().GenerateText(ctx, guard, prompt)
package openai
