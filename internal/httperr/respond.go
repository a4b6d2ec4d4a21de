package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type entry struct {
	status  int
	message string
}

// messages maps business codes to the HTTP status and the text shown to staff and
// customers.
var messages = map[string]entry{
	// validação
	"customer_incomplete":  {http.StatusBadRequest, "Preencha o nome do tutor, o nome do pet e o telefone."},
	"invalid_phone":        {http.StatusBadRequest, "Telefone inválido. Use DDD + número."},
	"service_required":     {http.StatusBadRequest, "Selecione um serviço."},
	"unknown_service":      {http.StatusBadRequest, "Serviço desconhecido."},
	"weight_tier_required": {http.StatusBadRequest, "Selecione a faixa de peso do pet."},
	"unknown_weight_tier":  {http.StatusBadRequest, "Faixa de peso desconhecida."},
	"addon_not_allowed":    {http.StatusBadRequest, "Adicional indisponível para este pet ou serviço."},
	"condominium_required": {http.StatusBadRequest, "Selecione o condomínio."},
	"unknown_condominium":  {http.StatusBadRequest, "Condomínio não atendido."},
	"date_required":        {http.StatusBadRequest, "Selecione uma data."},
	"hour_required":        {http.StatusBadRequest, "Selecione um horário."},
	"invalid_date":         {http.StatusBadRequest, "Data inválida."},
	"invalid_hour":         {http.StatusBadRequest, "Horário inválido."},
	"invalid_family":       {http.StatusBadRequest, "Tipo de agenda inválido."},
	"invalid_recurrence":   {http.StatusBadRequest, "Recorrência inválida."},
	"invalid_amount":       {http.StatusBadRequest, "Valor inválido."},
	"invalid_stay":         {http.StatusBadRequest, "A saída deve ser depois da entrada."},
	"unknown_daycare_plan": {http.StatusBadRequest, "Plano de creche desconhecido."},
	"invalid_request":      {http.StatusBadRequest, "Requisição inválida."},

	// fluxo
	"invalid_transition": {http.StatusConflict, "Esta etapa não está disponível agora."},
	"no_previous_step":   {http.StatusConflict, "Não há etapa anterior."},
	"invalid_state":      {http.StatusConflict, "O agendamento não permite esta ação."},
	"submit_in_progress": {http.StatusConflict, "Seu agendamento já está sendo enviado. Aguarde."},

	// disponibilidade
	"slot_unavailable":     {http.StatusConflict, "Horário indisponível. Escolha outro horário."},
	"slot_taken":           {http.StatusConflict, "Este horário acabou de ser reservado. Escolha outro horário."},
	"slot_locked":          {http.StatusConflict, "Outro agendamento está sendo feito neste horário. Tente novamente."},
	"disabled_date_exists": {http.StatusConflict, "Esta data já está bloqueada."},

	"subscription_inactive":   {http.StatusConflict, "Mensalista inativo."},
	"payments_not_configured": {http.StatusServiceUnavailable, "Pagamentos não configurados."},

	// acesso
	"missing_authorization_header": {http.StatusUnauthorized, "Faça login para continuar."},
	"invalid_authorization_header": {http.StatusUnauthorized, "Cabeçalho de autorização inválido."},
	"invalid_token":                {http.StatusUnauthorized, "Sessão expirada. Faça login novamente."},
	"forbidden":                    {http.StatusForbidden, "Acesso restrito à equipe."},

	// não encontrados
	"booking_not_found":       {http.StatusNotFound, "Sessão de agendamento expirada. Comece novamente."},
	"appointment_not_found":   {http.StatusNotFound, "Agendamento não encontrado."},
	"subscription_not_found":  {http.StatusNotFound, "Mensalista não encontrado."},
	"disabled_date_not_found": {http.StatusNotFound, "Data bloqueada não encontrada."},
	"enrollment_not_found":    {http.StatusNotFound, "Matrícula não encontrada."},
	"registration_not_found":  {http.StatusNotFound, "Hospedagem não encontrada."},
}

// Message returns the user-facing text for a code, or a generic one.
func Message(code string) string {
	if e, ok := messages[code]; ok {
		return e.message
	}
	return "Não foi possível concluir a operação."
}

// Status returns the HTTP status for a code; unknown codes are 400.
func Status(code string) int {
	if e, ok := messages[code]; ok {
		return e.status
	}
	return http.StatusBadRequest
}

// Respond writes err as {error_code, message}. Errors without a business code are
// persistence failures and surface their raw text.
func Respond(c *gin.Context, err error) {
	_ = c.Error(err)

	code := CodeOf(err)
	if code == "" {
		if IsExclusionConflict(err) {
			Write(c, http.StatusConflict, "slot_taken", Message("slot_taken"))
			return
		}
		Internal(c, "persistence_error", err.Error())
		return
	}

	Write(c, Status(code), code, Message(code))
}
