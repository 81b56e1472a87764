package engine

import (
	"fmt"
	"strings"

	"github.com/shaiso/Conveyor/internal/domain"
)

// Node — узел в графе зависимостей.
type Node struct {
	// Task — task, который представляет этот узел.
	Task *domain.Task

	// Name — имя task (идентификатор узла).
	Name string

	// InDegree — количество входящих рёбер (зависимостей).
	InDegree int

	// DependsOn — узлы, от которых зависит этот узел.
	DependsOn []*Node

	// Dependents — узлы, которые зависят от этого узла.
	Dependents []*Node

	// pos — позиция task при регистрации. Используется как
	// детерминированный tie-break для независимых tasks.
	pos int
}

// Graph — направленный ациклический граф tasks.
type Graph struct {
	// Nodes — все узлы графа (имя task → Node).
	Nodes map[string]*Node

	// Order — топологически отсортированный список узлов.
	// Tasks с равной глубиной зависимостей идут в порядке регистрации.
	Order []*Node

	// registered — узлы в порядке регистрации.
	registered []*Node
}

// BuildGraph строит граф зависимостей из списка tasks.
//
// Порядок tasks в списке — порядок регистрации; он сохраняется как
// tie-break при топологической сортировке, поэтому план выполнения
// детерминирован для одного и того же набора tasks.
//
// Возвращает ошибку до какого-либо выполнения:
//   - ErrSelfDependency — task зависит от самого себя
//   - ErrUnknownDependency — зависимость не зарегистрирована
//   - ErrCyclicDependency — в графе есть цикл
func BuildGraph(tasks []*domain.Task) (*Graph, error) {
	g := &Graph{
		Nodes:      make(map[string]*Node, len(tasks)),
		registered: make([]*Node, 0, len(tasks)),
	}

	// Первый проход: создаём все узлы
	for i, task := range tasks {
		node := &Node{
			Task:       task,
			Name:       task.Name,
			DependsOn:  make([]*Node, 0, len(task.DependsOn)),
			Dependents: make([]*Node, 0),
			pos:        i,
		}
		g.Nodes[task.Name] = node
		g.registered = append(g.registered, node)
	}

	// Второй проход: связываем узлы по зависимостям
	for _, node := range g.registered {
		for _, depName := range node.Task.DependsOn {
			if depName == node.Name {
				return nil, NewValidationError(node.Name, "depends_on",
					"task depends on itself", ErrSelfDependency)
			}

			depNode, exists := g.Nodes[depName]
			if !exists {
				return nil, NewValidationError(node.Name, "depends_on",
					fmt.Sprintf("depends on unknown task: %s", depName), ErrUnknownDependency)
			}

			g.addEdge(depNode, node)
		}
	}

	// Проверяем на циклы и строим топологический порядок
	order, err := g.topologicalSort()
	if err != nil {
		return nil, err
	}
	g.Order = order

	return g, nil
}

// addEdge добавляет ребро между узлами.
// Дублирующиеся зависимости схлопываются, чтобы не задвоить InDegree.
func (g *Graph) addEdge(from, to *Node) {
	for _, dep := range to.DependsOn {
		if dep.Name == from.Name {
			return // уже связаны
		}
	}
	from.Dependents = append(from.Dependents, to)
	to.DependsOn = append(to.DependsOn, from)
	to.InDegree++
}

// topologicalSort выполняет топологическую сортировку (алгоритм Кана).
//
// На каждом шаге из готовых узлов (inDegree = 0) выбирается тот, что был
// зарегистрирован раньше. Возвращает ErrCyclicDependency, если после
// обхода остались необработанные узлы.
func (g *Graph) topologicalSort() ([]*Node, error) {
	// Копируем inDegree, чтобы не модифицировать оригинал
	inDegree := make(map[string]int, len(g.Nodes))
	for name, node := range g.Nodes {
		inDegree[name] = node.InDegree
	}

	placed := make(map[string]bool, len(g.Nodes))
	order := make([]*Node, 0, len(g.Nodes))

	for len(order) < len(g.registered) {
		// Первый по порядку регистрации готовый узел
		var next *Node
		for _, node := range g.registered {
			if !placed[node.Name] && inDegree[node.Name] == 0 {
				next = node
				break
			}
		}

		// Готовых узлов нет, но граф не обойдён — цикл
		if next == nil {
			return nil, fmt.Errorf("%w: %s",
				ErrCyclicDependency, strings.Join(g.unplacedNames(placed), ", "))
		}

		placed[next.Name] = true
		order = append(order, next)

		for _, dependent := range next.Dependents {
			inDegree[dependent.Name]--
		}
	}

	return order, nil
}

// unplacedNames возвращает имена узлов, не попавших в порядок
// (участники или продолжение цикла), в порядке регистрации.
func (g *Graph) unplacedNames(placed map[string]bool) []string {
	names := make([]string, 0)
	for _, node := range g.registered {
		if !placed[node.Name] {
			names = append(names, node.Name)
		}
	}
	return names
}

// GetNode возвращает узел по имени task.
func (g *Graph) GetNode(name string) *Node {
	return g.Nodes[name]
}

// Size возвращает количество узлов в графе.
func (g *Graph) Size() int {
	return len(g.Nodes)
}

// Roots возвращает узлы без зависимостей в порядке регистрации.
func (g *Graph) Roots() []*Node {
	roots := make([]*Node, 0)
	for _, node := range g.registered {
		if node.InDegree == 0 {
			roots = append(roots, node)
		}
	}
	return roots
}
