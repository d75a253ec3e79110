package dto

// ErrorResponse cuerpo de error HTTP. Code identifica la causa; Message es el texto para el cliente.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse respuesta simple con un mensaje.
type MessageResponse struct {
	Message string `json:"message"`
}
