package assign

import "errors"


var ErrNoEligibleUsers = errors.New("nenhum usuário elegível no pool")


// SelectNext escolhe o próximo usuário do pool em round-robin, a partir da
// posição seguinte ao cursor. Usuários em exclude são pulados; se todos
// estiverem excluídos, devolve mesmo assim a próxima posição (progresso vale
// mais que exclusão estrita, caso do pool de tamanho 1).
//
// Puro e determinístico: mesmo pool + mesmo cursor = mesma escolha.
// Quem chama é responsável por persistir o cursor devolvido.
func SelectNext(pool []string, cursor int, exclude map[string]bool) (string, int, error) {
	n := len(pool)
	if n == 0 {
		return "", cursor, ErrNoEligibleUsers
	}

	start := ((cursor+1)%n + n) % n // cursor pode vir -1 (nunca atribuiu)

	for i := 0; i < n; i++ {
		idx := (start + i) % n
		if !exclude[pool[idx]] {
			return pool[idx], idx, nil
		}
	}

	return pool[start], start, nil
}


// CursorFor converte o último atribuído persistido no índice dele dentro do
// pool atual. Se ele saiu do pool (desativado, papel trocado), devolve -1 e
// a seleção recomeça do início.
func CursorFor(pool []string, lastAssigned string) int {
	for i, id := range pool {
		if id == lastAssigned {
			return i
		}
	}
	return -1
}
