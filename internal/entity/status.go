package entity

import "time"

// DeriveStatus - deriva o status observável de uma tarefa a partir das datas, da
// conclusão e do estado das subtarefas. Função pura, sem I/O; chamada a cada
// leitura para que o status nunca fique obsoleto após edições de prazo/realizado.
//
// Ordem de prioridade:
//  1. Subtarefas incompletas bloqueiam tudo, mesmo com o pai vencido
//  2. Tarefa realizada: no prazo (realizado <= prazo) ou em atraso
//  3. Sem conclusão: comparação da data de hoje com o prazo
func DeriveStatus(task *Task, subtaskStatuses []TaskStatus, today time.Time) TaskStatus {
	// 1. Gating de subtarefas tem precedência sobre qualquer fato de data
	if task.SubtaskCount > 0 && !allConcluidas(subtaskStatuses) {
		return StatusAguardandoSubtarefas
	}

	// 2. Tarefa realizada: realizado == prazo ainda conta como no prazo
	if task.Realizado != nil {
		if !dateOnly(*task.Realizado).After(dateOnly(task.Prazo)) {
			return StatusConcluido
		}
		return StatusConcluidoEmAtraso
	}

	// 3. Sem conclusão: vencida ou em andamento
	if dateOnly(today).After(dateOnly(task.Prazo)) {
		return StatusEmAtraso
	}
	return StatusEmAndamento
}

// IsLate - conclusão após o prazo; realizado == prazo ainda é no prazo
func IsLate(realizado, prazo time.Time) bool {
	return dateOnly(realizado).After(dateOnly(prazo))
}

func allConcluidas(statuses []TaskStatus) bool {
	for _, s := range statuses {
		if !s.IsConcluido() {
			return false
		}
	}
	return true
}

// dateOnly - prazo e realizado são datas de calendário; ignoramos hora e fuso
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
