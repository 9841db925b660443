package entity

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDeriveStatusEmAndamento(t *testing.T) {
	task := &Task{Prazo: date(2024, 3, 10)}

	status := DeriveStatus(task, nil, date(2024, 3, 10))
	if status != StatusEmAndamento {
		t.Errorf("Expected %s, got %s", StatusEmAndamento, status)
	}
}

func TestDeriveStatusEmAtraso(t *testing.T) {
	// Prazo 2024-03-10, sem realizado, hoje 2024-03-11
	task := &Task{Prazo: date(2024, 3, 10)}

	status := DeriveStatus(task, nil, date(2024, 3, 11))
	if status != StatusEmAtraso {
		t.Errorf("Expected %s, got %s", StatusEmAtraso, status)
	}
}

func TestDeriveStatusConcluidoNoPrazo(t *testing.T) {
	// realizado == prazo ainda é no prazo
	realizado := date(2024, 3, 10)
	task := &Task{Prazo: date(2024, 3, 10), Realizado: &realizado}

	status := DeriveStatus(task, nil, date(2024, 4, 1))
	if status != StatusConcluido {
		t.Errorf("Expected %s, got %s", StatusConcluido, status)
	}
}

func TestDeriveStatusConcluidoEmAtraso(t *testing.T) {
	realizado := date(2024, 3, 11)
	task := &Task{Prazo: date(2024, 3, 10), Realizado: &realizado}

	status := DeriveStatus(task, nil, date(2024, 3, 11))
	if status != StatusConcluidoEmAtraso {
		t.Errorf("Expected %s, got %s", StatusConcluidoEmAtraso, status)
	}
}

func TestDeriveStatusIgnoraHoraEFuso(t *testing.T) {
	// 23h do dia do prazo em outro fuso ainda conta como o mesmo dia
	realizado := time.Date(2024, 3, 10, 23, 59, 0, 0, time.FixedZone("BRT", -3*3600))
	task := &Task{Prazo: date(2024, 3, 10), Realizado: &realizado}

	status := DeriveStatus(task, nil, date(2024, 4, 1))
	if status != StatusConcluido {
		t.Errorf("Expected %s, got %s", StatusConcluido, status)
	}
}

func TestDeriveStatusAguardandoSubtarefas(t *testing.T) {
	// Subtarefa incompleta bloqueia mesmo com o pai vencido
	task := &Task{Prazo: date(2024, 3, 10), SubtaskCount: 2}
	subtaskStatuses := []TaskStatus{StatusConcluido, StatusEmAtraso}

	status := DeriveStatus(task, subtaskStatuses, date(2024, 3, 20))
	if status != StatusAguardandoSubtarefas {
		t.Errorf("Expected %s, got %s", StatusAguardandoSubtarefas, status)
	}
}

func TestDeriveStatusSubtarefasConcluidasLiberamOPai(t *testing.T) {
	// "Concluído em Atraso" também conta como concluído para o gating
	task := &Task{Prazo: date(2024, 3, 10), SubtaskCount: 2}
	subtaskStatuses := []TaskStatus{StatusConcluido, StatusConcluidoEmAtraso}

	status := DeriveStatus(task, subtaskStatuses, date(2024, 3, 20))
	if status != StatusEmAtraso {
		t.Errorf("Expected %s, got %s", StatusEmAtraso, status)
	}
}

func TestIsLate(t *testing.T) {
	if IsLate(date(2024, 3, 10), date(2024, 3, 10)) {
		t.Error("realizado == prazo não deveria ser atraso")
	}
	if !IsLate(date(2024, 3, 11), date(2024, 3, 10)) {
		t.Error("realizado > prazo deveria ser atraso")
	}
	if IsLate(date(2024, 3, 9), date(2024, 3, 10)) {
		t.Error("realizado < prazo não deveria ser atraso")
	}
}
