package proxy

import "fmt"

const (
	msgInvalidBody        = "Request body deve ser um JSON."
	msgMissingUserMessage = "O campo 'user_message' é obrigatório."
)

func notInitializedMessage(displayName, envKey string) string {
	return fmt.Sprintf("Cliente %s não inicializado. Verifique a %s.", displayName, envKey)
}

func providerErrorContext(displayName string) string {
	return fmt.Sprintf("Ocorreu um erro ao processar a solicitação com o %s", displayName)
}

func healthMessage(displayName string) string {
	return fmt.Sprintf("Proxy do Chatbot (%s) está online!", displayName)
}
